// Copyright 2025 GCN Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// repairJSON patches the one malformation local chat models produce often
// enough to matter: an object key that lost its opening quote, as in
// `{summary": "..."}`. The scan is string-aware, so commas and braces inside
// quoted values never trigger a rewrite. Well-formed input passes through
// unchanged.
func repairJSON(s string) string {
	runes := []rune(s)

	var out strings.Builder
	out.Grow(len(s) + 8)

	inString := false
	expectKey := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inString {
			out.WriteRune(r)
			if r == '\\' && i+1 < len(runes) {
				i++
				out.WriteRune(runes[i])
			} else if r == '"' {
				inString = false
			}
			continue
		}

		switch {
		case r == '"':
			inString = true
			expectKey = false
			out.WriteRune(r)
		case r == '{' || r == ',':
			expectKey = true
			out.WriteRune(r)
		case expectKey && isIdentRune(r):
			if end, ok := bareKeyEnd(runes, i); ok {
				key := strings.TrimRight(string(runes[i:end]), " ")
				out.WriteString(`"` + key + `":`)
				i = end + 1 // past the stray quote and the colon
			} else {
				out.WriteRune(r)
			}
			expectKey = false
		default:
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				expectKey = false
			}
			out.WriteRune(r)
		}
	}

	return out.String()
}

// bareKeyEnd scans an identifier run starting at i and reports where it
// stops. The run is a repairable key only when it is terminated by `":`,
// meaning the opening quote went missing; ok is false otherwise.
func bareKeyEnd(runes []rune, i int) (end int, ok bool) {
	j := i
	for j < len(runes) && (isIdentRune(runes[j]) || runes[j] == ' ') {
		j++
	}
	if j+1 < len(runes) && runes[j] == '"' && runes[j+1] == ':' {
		return j, true
	}
	return 0, false
}

// isIdentRune reports whether r can appear in a bare object key.
func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
