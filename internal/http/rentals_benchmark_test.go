package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moviestore/moviestore/internal/repository"
)

func BenchmarkHandleQuote(b *testing.B) {
	srv, repo := buildTestServer(b)

	movie, err := repo.Movies.Create(context.Background(), repository.MovieCreateParams{
		Title:       "Benchmark Movie",
		ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Actors:      "Bench Marker",
		Description: "A movie that exists only to be priced repeatedly.",
	})
	if err != nil {
		b.Fatalf("create movie: %v", err)
	}

	target := fmt.Sprintf("/rentals/quote?movieIds=%s&weeks=3", movie.ID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		srv.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
