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

package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEngine_UnknownJobNotFound(t *testing.T) {
	e := New(2, 8)
	if _, ok := e.Status("missing"); ok {
		t.Fatal("expected unknown job to be not-found")
	}
}

func TestEngine_SuccessfulJob(t *testing.T) {
	e := New(2, 8)
	done := make(chan struct{})
	if err := e.Submit(context.Background(), "job-1", func(ctx context.Context) (any, error) {
		defer close(done)
		return 42, nil
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-done
	r, ok := e.AwaitSent(context.Background(), "job-1", 20, time.Millisecond)
	if !ok {
		t.Fatal("expected job to be found")
	}
	for r.Status != StatusSuccess && r.Status != StatusFailure {
		r, _ = e.Status("job-1")
		time.Sleep(time.Millisecond)
	}
	if r.Status != StatusSuccess {
		t.Fatalf("status = %v, want StatusSuccess", r.Status)
	}
	if r.Value != 42 {
		t.Fatalf("value = %v, want 42", r.Value)
	}
}

func TestEngine_FailedJob(t *testing.T) {
	e := New(2, 8)
	wantErr := errors.New("boom")
	if err := e.Submit(context.Background(), "job-2", func(ctx context.Context) (any, error) {
		return nil, wantErr
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	var r Result
	for i := 0; i < 100; i++ {
		var ok bool
		r, ok = e.Status("job-2")
		if ok && (r.Status == StatusSuccess || r.Status == StatusFailure) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if r.Status != StatusFailure {
		t.Fatalf("status = %v, want StatusFailure", r.Status)
	}
	if !errors.Is(r.Err, wantErr) {
		t.Fatalf("err = %v, want %v", r.Err, wantErr)
	}
	if Classify(r.Err) != ErrorCodeRunFailure {
		t.Fatalf("Classify = %v, want ErrorCodeRunFailure", Classify(r.Err))
	}
}

func TestEngine_PanicClassifiedAsWorkerLost(t *testing.T) {
	e := New(2, 8)
	if err := e.Submit(context.Background(), "job-3", func(ctx context.Context) (any, error) {
		panic("worker died")
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	var r Result
	for i := 0; i < 100; i++ {
		var ok bool
		r, ok = e.Status("job-3")
		if ok && (r.Status == StatusSuccess || r.Status == StatusFailure) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if r.Status != StatusFailure {
		t.Fatalf("status = %v, want StatusFailure", r.Status)
	}
	if Classify(r.Err) != ErrorCodeWorkerLost {
		t.Fatalf("Classify = %v, want ErrorCodeWorkerLost", Classify(r.Err))
	}
}

func TestEngine_DuplicateSubmitRejected(t *testing.T) {
	e := New(2, 8)
	block := make(chan struct{})
	_ = e.Submit(context.Background(), "job-4", func(ctx context.Context) (any, error) {
		<-block
		return nil, nil
	})
	if err := e.Submit(context.Background(), "job-4", func(ctx context.Context) (any, error) {
		return nil, nil
	}); err == nil {
		t.Fatal("expected duplicate submit to be rejected")
	}
	close(block)
}

func TestEngine_Forget(t *testing.T) {
	e := New(2, 8)
	done := make(chan struct{})
	_ = e.Submit(context.Background(), "job-5", func(ctx context.Context) (any, error) {
		defer close(done)
		return "ok", nil
	})
	<-done
	for i := 0; i < 100; i++ {
		if r, ok := e.Status("job-5"); ok && r.Status == StatusSuccess {
			break
		}
		time.Sleep(time.Millisecond)
	}
	e.Forget("job-5")
	if _, ok := e.Status("job-5"); ok {
		t.Fatal("expected job to be forgotten")
	}
}

func TestEngine_ClosedEngineRejectsSubmit(t *testing.T) {
	e := New(2, 8)
	e.Close()
	if err := e.Submit(context.Background(), "job-6", func(ctx context.Context) (any, error) {
		return nil, nil
	}); err == nil {
		t.Fatal("expected submit on a closed engine to fail")
	}
}
