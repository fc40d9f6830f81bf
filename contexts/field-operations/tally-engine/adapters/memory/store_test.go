package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
)

func TestConcurrentSubmitsHaveOneWinner(t *testing.T) {
	store := NewStore(nil, nil)

	const racers = 8
	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			now := time.Now().UTC()
			results[n] = store.SubmitResult(context.Background(), entities.MesaResult{
				ResultID:  "res-1",
				StationID: "st-1",
				Mesa:      4,
				Votos:     map[string]int{"cand-1": n},
				Estado:    entities.EstadoEnviada,
				EnviadoEn: &now,
				CreadoEn:  now,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case err == domainerrors.ErrAlreadySubmitted:
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning submission, got %d", winners)
	}

	result, found, err := store.GetResult(context.Background(), "st-1", 4)
	if err != nil || !found {
		t.Fatalf("result lookup failed: found=%v err=%v", found, err)
	}
	if result.Estado != entities.EstadoEnviada {
		t.Fatalf("expected ENVIADA, got %q", result.Estado)
	}
}
