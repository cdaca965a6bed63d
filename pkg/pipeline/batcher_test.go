package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestBatches_Reconstruction(t *testing.T) {
	for _, size := range []int{1, 2, 3, 7, 50, 1000} {
		for _, n := range []int{0, 1, 2, 5, 49, 50, 51, 250} {
			keywords := make([]string, n)
			for i := range keywords {
				keywords[i] = fmt.Sprintf("keyword-%d", i)
			}

			batches, err := Batches(keywords, size)
			if err != nil {
				t.Fatalf("Batches(n=%d, size=%d) returned error: %v", n, size, err)
			}

			var reconstructed []string
			for i, batch := range batches {
				if len(batch) > size {
					t.Errorf("batch %d exceeds size %d: %d", i, size, len(batch))
				}
				if i < len(batches)-1 && len(batch) != size {
					t.Errorf("non-final batch %d has size %d, want %d", i, len(batch), size)
				}
				reconstructed = append(reconstructed, batch...)
			}

			if len(reconstructed) != n {
				t.Fatalf("reconstructed %d keywords, want %d", len(reconstructed), n)
			}
			for i := range keywords {
				if reconstructed[i] != keywords[i] {
					t.Fatalf("order broken at %d: got %q want %q", i, reconstructed[i], keywords[i])
				}
			}
		}
	}
}

func TestBatches_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -50} {
		_, err := Batches([]string{"a", "b"}, size)
		if err == nil {
			t.Fatalf("expected error for size %d", size)
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("expected ConfigError, got %T", err)
		}
	}
}

func TestBatches_Empty(t *testing.T) {
	batches, err := Batches(nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 0 {
		t.Errorf("expected no batches for empty input, got %d", len(batches))
	}
}
