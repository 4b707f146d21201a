// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicechUlqbnuQQoBlaWdic1hBwΞΞ = ord.NewSliceSer[float32](varint.Float32)
	sliceitYe4k90jbB591V1TUsQHgΞΞ = ord.NewSliceSer[Chunk](ChunkMUS)
	slicemPfk8tTbBRwBJPKIbbFjnQΞΞ = ord.NewSliceSer[string](ord.String)
)

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	n += ord.String.Marshal(v.PageSpan, bs[n:])
	return n + slicechUlqbnuQQoBlaWdic1hBwΞΞ.Marshal(v.Vector, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.PageSpan, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slicechUlqbnuQQoBlaWdic1hBwΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.Text)
	size += ord.String.Size(v.PageSpan)
	return size + slicechUlqbnuQQoBlaWdic1hBwΞΞ.Size(v.Vector)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicechUlqbnuQQoBlaWdic1hBwΞΞ.Skip(bs[n:])
	n += n1
	return
}

var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.ByteSlice.Marshal(v.Raw, bs[n:])
	n += ord.String.Marshal(v.Info, bs[n:])
	n += sliceitYe4k90jbB591V1TUsQHgΞΞ.Marshal(v.Chunks, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Raw, n1, err = ord.ByteSlice.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Info, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunks, n1, err = sliceitYe4k90jbB591V1TUsQHgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = ord.String.Size(v.Name)
	size += ord.ByteSlice.Size(v.Raw)
	size += ord.String.Size(v.Info)
	size += sliceitYe4k90jbB591V1TUsQHgΞΞ.Size(v.Chunks)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.ByteSlice.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceitYe4k90jbB591V1TUsQHgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var ChatEntryMUS = chatEntryMUS{}

type chatEntryMUS struct{}

func (s chatEntryMUS) Marshal(v ChatEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ChatID, bs)
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += slicemPfk8tTbBRwBJPKIbbFjnQΞΞ.Marshal(v.KeyPoints, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s chatEntryMUS) Unmarshal(bs []byte) (v ChatEntry, n int, err error) {
	v.ChatID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.KeyPoints, n1, err = slicemPfk8tTbBRwBJPKIbbFjnQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chatEntryMUS) Size(v ChatEntry) (size int) {
	size = ord.String.Size(v.ChatID)
	size += ord.String.Size(v.Summary)
	size += slicemPfk8tTbBRwBJPKIbbFjnQΞΞ.Size(v.KeyPoints)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s chatEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicemPfk8tTbBRwBJPKIbbFjnQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
