package ristretto_test

import (
	"testing"

	"github.com/mnemoware/mnemo-go-sdk/memory"
	"github.com/mnemoware/mnemo-go-sdk/memory/cache/ristretto"
)

func TestCache_PutGetInvalidate(t *testing.T) {
	cache, err := ristretto.New(100)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, ok := cache.Get("path"); ok {
		t.Error("Get on empty cache must miss")
	}

	collection := memory.NewCollection()
	cache.Put("path", collection)

	got, ok := cache.Get("path")
	if !ok {
		t.Fatal("Get missed after Put")
	}
	if got != collection {
		t.Error("Get returned a different collection")
	}

	cache.Invalidate("path")
	if _, ok := cache.Get("path"); ok {
		t.Error("Get hit after Invalidate")
	}
}

func TestCache_ImplementsInterface(t *testing.T) {
	cache, err := ristretto.New(10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var _ memory.Cache = cache
}
