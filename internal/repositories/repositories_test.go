package repositories

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/desertthunder/songmatch/internal/services"
	"github.com/desertthunder/songmatch/internal/shared"
	tu "github.com/desertthunder/songmatch/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestLookupRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Put and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLookupRepository(db)
		if err := repo.Put(ctx, "ytmusic", KindAlbum, "MPREb_1", []byte(`{"title":"Kind of Blue"}`)); err != nil {
			t.Fatalf("failed to put lookup: %v", err)
		}

		got, err := repo.Get(ctx, "ytmusic", KindAlbum, "MPREb_1")
		if err != nil {
			t.Fatalf("failed to get lookup: %v", err)
		}
		if got.ID == "" {
			t.Error("lookup ID should be set")
		}
		if string(got.Payload) != `{"title":"Kind of Blue"}` {
			t.Errorf("unexpected payload %s", got.Payload)
		}
		if got.CreatedAt.IsZero() {
			t.Error("created_at should be set")
		}
	})

	t.Run("Put replaces payload", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLookupRepository(db)
		for _, payload := range []string{`{"v":1}`, `{"v":2}`} {
			if err := repo.Put(ctx, "spotify", KindArtist, "a1", []byte(payload)); err != nil {
				t.Fatalf("failed to put lookup: %v", err)
			}
		}

		got, err := repo.Get(ctx, "spotify", KindArtist, "a1")
		if err != nil {
			t.Fatalf("failed to get lookup: %v", err)
		}
		if string(got.Payload) != `{"v":2}` {
			t.Errorf("expected replaced payload, got %s", got.Payload)
		}

		counts, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if len(counts) != 1 || counts[0].Count != 1 {
			t.Errorf("expected a single record after upsert, got %+v", counts)
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewLookupRepository(db).Get(ctx, "spotify", KindArtist, "missing")
		if !errors.Is(err, shared.ErrResourceNotFound) {
			t.Errorf("expected ErrResourceNotFound, got %v", err)
		}
	})

	t.Run("Put requires a key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewLookupRepository(db).Put(ctx, "spotify", KindArtist, "", []byte("{}"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Count and Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLookupRepository(db)
		records := []struct{ catalog, kind, id string }{
			{"ytmusic", KindAlbum, "al1"},
			{"ytmusic", KindAlbum, "al2"},
			{"ytmusic", KindArtist, "ar1"},
			{"spotify", KindArtist, "ar1"},
		}
		for _, r := range records {
			if err := repo.Put(ctx, r.catalog, r.kind, r.id, []byte("{}")); err != nil {
				t.Fatalf("failed to put lookup: %v", err)
			}
		}

		counts, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		want := []LookupCount{
			{Catalog: "spotify", Kind: KindArtist, Count: 1},
			{Catalog: "ytmusic", Kind: KindAlbum, Count: 2},
			{Catalog: "ytmusic", Kind: KindArtist, Count: 1},
		}
		if !reflect.DeepEqual(counts, want) {
			t.Errorf("Count() = %+v, want %+v", counts, want)
		}

		removed, err := repo.Clear(ctx, "ytmusic")
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if removed != 3 {
			t.Errorf("expected 3 removed, got %d", removed)
		}

		removed, err = repo.Clear(ctx, "")
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 removed, got %d", removed)
		}

		counts, err = repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if len(counts) != 0 {
			t.Errorf("expected empty cache, got %+v", counts)
		}
	})
}

func TestCachedCatalogs(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	newYouTube := func() *tu.FakeYouTube {
		return &tu.FakeYouTube{
			Albums: map[string]services.YouTubeAlbum{
				"MPREb_1": {BrowseID: "MPREb_1", Title: "Kind of Blue", Type: "Album", Year: "1959"},
			},
			Artists: map[string]services.YouTubeArtistProfile{
				"UCmiles": {Name: "Miles Davis", ChannelID: "UCmiles"},
			},
		}
	}

	t.Run("album lookups are served from cache", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		fake := newYouTube()
		cached := NewCachedYouTube(fake, NewLookupRepository(db), logger)

		for range 3 {
			album, err := cached.FetchAlbum(ctx, "MPREb_1")
			if err != nil {
				t.Fatalf("FetchAlbum() error = %v", err)
			}
			if album.Title != "Kind of Blue" || album.Year != "1959" {
				t.Errorf("unexpected album %+v", album)
			}
		}

		if len(fake.AlbumCalls) != 1 {
			t.Errorf("expected 1 catalog call, got %d", len(fake.AlbumCalls))
		}
	})

	t.Run("artist lookups are cached per catalog", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLookupRepository(db)
		yt := newYouTube()
		sp := &tu.FakeSpotify{Artists: map[string]services.SpotifyArtist{
			"UCmiles": {ID: "UCmiles", Name: "Miles Davis (Spotify)"},
		}}

		ytCached := NewCachedYouTube(yt, repo, logger)
		spCached := NewCachedSpotify(sp, repo, logger)

		for range 2 {
			a, err := ytCached.FetchArtist(ctx, "UCmiles")
			if err != nil || a.Name != "Miles Davis" {
				t.Fatalf("youtube FetchArtist() = %+v, %v", a, err)
			}
			b, err := spCached.FetchArtist(ctx, "UCmiles")
			if err != nil || b.Name != "Miles Davis (Spotify)" {
				t.Fatalf("spotify FetchArtist() = %+v, %v", b, err)
			}
		}

		if len(yt.ArtistCalls) != 1 || len(sp.ArtistCalls) != 1 {
			t.Errorf("expected one call per catalog, got youtube=%d spotify=%d", len(yt.ArtistCalls), len(sp.ArtistCalls))
		}
	})

	t.Run("catalog errors are not cached", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLookupRepository(db)
		fake := newYouTube()
		cached := NewCachedYouTube(fake, repo, logger)

		if _, err := cached.FetchAlbum(ctx, "MPREb_missing"); !errors.Is(err, shared.ErrResourceNotFound) {
			t.Fatalf("expected ErrResourceNotFound, got %v", err)
		}
		counts, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if len(counts) != 0 {
			t.Errorf("expected nothing cached, got %+v", counts)
		}
	})

	t.Run("unreadable payload is refetched", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLookupRepository(db)
		if err := repo.Put(ctx, "ytmusic", KindAlbum, "MPREb_1", []byte("not json")); err != nil {
			t.Fatalf("failed to put lookup: %v", err)
		}

		fake := newYouTube()
		album, err := NewCachedYouTube(fake, repo, logger).FetchAlbum(ctx, "MPREb_1")
		if err != nil {
			t.Fatalf("FetchAlbum() error = %v", err)
		}
		if album.Title != "Kind of Blue" || len(fake.AlbumCalls) != 1 {
			t.Errorf("expected a catalog fetch, got %+v calls=%d", album, len(fake.AlbumCalls))
		}

		stored, err := repo.Get(ctx, "ytmusic", KindAlbum, "MPREb_1")
		if err != nil {
			t.Fatalf("failed to get lookup: %v", err)
		}
		if string(stored.Payload) == "not json" {
			t.Error("expected the bad payload to be replaced")
		}
	})

	t.Run("broken cache falls back to the catalog", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		fake := newYouTube()
		album, err := NewCachedYouTube(fake, NewLookupRepository(db), logger).FetchAlbum(ctx, "MPREb_1")
		if err != nil {
			t.Fatalf("FetchAlbum() error = %v", err)
		}
		if album.Title != "Kind of Blue" {
			t.Errorf("unexpected album %+v", album)
		}
	})

	t.Run("searches pass through", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		fake := newYouTube()
		fake.Results = map[string][]services.YouTubeTrack{"Blue": {{VideoID: "v1"}}}
		cached := NewCachedYouTube(fake, NewLookupRepository(db), logger)

		for range 2 {
			results, err := cached.SearchTracks(ctx, "Blue")
			if err != nil || len(results) != 1 {
				t.Fatalf("SearchTracks() = %+v, %v", results, err)
			}
		}
		if len(fake.Queries) != 2 {
			t.Errorf("expected every search to reach the catalog, got %d", len(fake.Queries))
		}
	})
}
