// Copyright 2024 The Tessera authors. All Rights Reserved.
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

package runtime

import (
	"context"
	"testing"

	"github.com/biocommons/anyvar-go/memstore"
	"github.com/biocommons/anyvar-go/noopstore"
)

func TestNewStorage_Memory(t *testing.T) {
	s, err := NewStorage(context.Background(), "memory://")
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	if _, ok := s.(*memstore.Store); !ok {
		t.Fatalf("got %T, want *memstore.Store", s)
	}
}

func TestNewStorage_DefaultsToMemory(t *testing.T) {
	s, err := NewStorage(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	if _, ok := s.(*memstore.Store); !ok {
		t.Fatalf("got %T, want *memstore.Store", s)
	}
}

func TestNewStorage_Noop(t *testing.T) {
	s, err := NewStorage(context.Background(), "noop://")
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	if _, ok := s.(*noopstore.Store); !ok {
		t.Fatalf("got %T, want *noopstore.Store", s)
	}
}

func TestNewStorage_UnknownScheme(t *testing.T) {
	if _, err := NewStorage(context.Background(), "snowflake://user@account/db"); err == nil {
		t.Fatal("expected an error for an unimplemented scheme")
	}
}
