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


package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the on-disk configuration for the regent CLI. Every field
// has a working default; the SerpAPI key may also come from the
// SERPAPI_KEY environment variable.
type AppConfig struct {
	DBPath string `yaml:"db_path"`

	AI struct {
		EmbeddingHost  string `yaml:"embedding_host"`
		ChatHost       string `yaml:"chat_host"`
		EmbeddingModel string `yaml:"embedding_model"`
		ChatModel      string `yaml:"chat_model"`
	} `yaml:"ai"`

	Web struct {
		SerpAPIKey string `yaml:"serpapi_key"`
	} `yaml:"web"`

	Search struct {
		DocThreshold         float32 `yaml:"doc_threshold"`
		ChunkThreshold       float32 `yaml:"chunk_threshold"`
		MaxDocuments         int     `yaml:"max_documents"`
		MaxChunksPerDocument int     `yaml:"max_chunks_per_document"`
		MaxChunks            int     `yaml:"max_chunks"`
	} `yaml:"search"`
}

// LoadConfig reads the YAML config at path. An empty path yields defaults.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	cfg.DBPath = "./regent-db"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if cfg.Web.SerpAPIKey == "" {
		cfg.Web.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	}

	return cfg, nil
}
