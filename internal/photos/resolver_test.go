package photos

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const host = "http://example.com"

func mkFolder(t *testing.T, root, name string, files ...string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestQualify(t *testing.T) {
	tests := []struct {
		img  string
		want string
	}{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"/uploads/a.jpg", host + "/uploads/a.jpg"},
		{"a.jpg", host + "/photos/a.jpg"},
	}

	for _, tt := range tests {
		if got := Qualify(tt.img, host); got != tt.want {
			t.Errorf("Qualify(%q) = %q, want %q", tt.img, got, tt.want)
		}
	}
}

func TestResolveStoredImages(t *testing.T) {
	r := NewResolver(t.TempDir())

	cover := "/photos/Лофт/2.jpg"
	urls, coverURL, err := r.Resolve("Лофт", []string{"1.jpg", "/photos/Лофт/2.jpg"}, &cover, host)
	if err != nil {
		t.Fatal(err)
	}

	if len(urls) != 2 {
		t.Fatalf("got %d urls, want 2", len(urls))
	}
	if urls[0] != host+"/photos/1.jpg" || urls[1] != host+"/photos/Лофт/2.jpg" {
		t.Fatalf("urls = %v", urls)
	}
	if coverURL != host+"/photos/Лофт/2.jpg" {
		t.Fatalf("cover = %q", coverURL)
	}
}

func TestResolveStoredImagesCoverDefaultsToFirst(t *testing.T) {
	r := NewResolver(t.TempDir())

	urls, coverURL, err := r.Resolve("Лофт", []string{"a.jpg", "b.jpg"}, nil, host)
	if err != nil {
		t.Fatal(err)
	}
	if coverURL != urls[0] {
		t.Fatalf("cover = %q, want first url %q", coverURL, urls[0])
	}
}

func TestResolveFolderFromCoverURL(t *testing.T) {
	root := t.TempDir()
	mkFolder(t, root, "Циферблат", "б.jpg", "а.png", "readme.txt")

	r := NewResolver(root)

	cover := host + "/photos/Циферблат/б.jpg"
	urls, coverURL, err := r.Resolve("другое имя", nil, &cover, host)
	if err != nil {
		t.Fatal(err)
	}

	// Non-image files are skipped and names sort by Russian collation.
	want := []string{
		host + "/photos/Циферблат/а.png",
		host + "/photos/Циферблат/б.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
	if coverURL != want[0] {
		t.Fatalf("cover = %q, want %q", coverURL, want[0])
	}
}

func TestResolveMatchesFolderByName(t *testing.T) {
	root := t.TempDir()
	mkFolder(t, root, "Кофейня Чёрная", "1.jpg")

	r := NewResolver(root)

	// ё/е and punctuation differences must not break the match.
	urls, _, err := r.Resolve("Кофейня «Черная»", nil, nil, host)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != host+"/photos/Кофейня Чёрная/1.jpg" {
		t.Fatalf("urls = %v", urls)
	}
}

func TestResolveExactMatchBeatsPartial(t *testing.T) {
	root := t.TempDir()
	mkFolder(t, root, "Чайная", "a.jpg")
	mkFolder(t, root, "Чайная ложка", "b.jpg")

	r := NewResolver(root)

	urls, _, err := r.Resolve("Чайная", nil, nil, host)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != host+"/photos/Чайная/a.jpg" {
		t.Fatalf("urls = %v", urls)
	}
}

func TestResolveAmbiguousFolder(t *testing.T) {
	root := t.TempDir()
	mkFolder(t, root, "Кафе Север", "a.jpg")
	mkFolder(t, root, "Север Холл", "b.jpg")

	r := NewResolver(root)

	_, _, err := r.Resolve("Север", nil, nil, host)
	if !errors.Is(err, ErrAmbiguousFolder) {
		t.Fatalf("err = %v, want ErrAmbiguousFolder", err)
	}
}

func TestResolveFallsBackToCover(t *testing.T) {
	r := NewResolver(t.TempDir())

	cover := "/uploads/x.jpg"
	urls, coverURL, err := r.Resolve("Нет такого места", nil, &cover, host)
	if err != nil {
		t.Fatal(err)
	}
	if urls != nil {
		t.Fatalf("urls = %v, want nil", urls)
	}
	if coverURL != host+"/uploads/x.jpg" {
		t.Fatalf("cover = %q", coverURL)
	}
}

func TestResolveNothingKnown(t *testing.T) {
	r := NewResolver(t.TempDir())

	urls, coverURL, err := r.Resolve("место", nil, nil, host)
	if err != nil {
		t.Fatal(err)
	}
	if urls != nil || coverURL != "" {
		t.Fatalf("got %v, %q, want nil and empty cover", urls, coverURL)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Чёрный кот", "черныйкот"},
		{"Подъезд №1", "подьезд1"},
		{"L'Amour", "lьamour"},
		{"  ---  ", ""},
	}

	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
