// Package photos resolves the ordered photo gallery for a place, either from
// the image list stored on the row or by matching the place name against
// folder names under the static media root.
package photos

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrAmbiguousFolder is returned when a place name matches more than one
// media folder by substring containment. Picking "first found" silently
// attaches another venue's gallery, so the caller has to rename the folder
// or store the image list explicitly.
var ErrAmbiguousFolder = errors.New("place name matches multiple photo folders")

// PublicPrefix is the URL prefix the media root is served under.
const PublicPrefix = "/photos"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type Resolver struct {
	root     string
	collator *collate.Collator
}

func NewResolver(root string) *Resolver {
	return &Resolver{
		root:     root,
		collator: collate.New(language.Russian),
	}
}

// Resolve produces the ordered photo URLs and the cover URL for a place.
// host is the request origin ("http://example.com") used to qualify
// root-relative paths.
//
// Policy, in order: a non-empty stored image list is taken as-is and only
// qualified; otherwise a media folder is derived from the cover URL or by
// name matching and its files are listed; otherwise the stored cover alone.
func (r *Resolver) Resolve(name string, images []string, cover *string, host string) ([]string, string, error) {
	if len(images) > 0 {
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, Qualify(img, host))
		}

		coverURL := urls[0]
		if cover != nil && *cover != "" {
			coverURL = Qualify(*cover, host)
		}
		return urls, coverURL, nil
	}

	folder, err := r.findFolder(name, cover)
	if err != nil {
		return nil, "", err
	}

	if folder != "" {
		urls, err := r.listFolder(folder, host)
		if err != nil {
			return nil, "", err
		}
		if len(urls) > 0 {
			return urls, urls[0], nil
		}
	}

	if cover != nil && *cover != "" {
		return nil, Qualify(*cover, host), nil
	}
	return nil, "", nil
}

// Qualify turns a stored image reference into an absolute URL. Absolute URLs
// pass through, root-relative paths get the request host, and bare filenames
// are assumed to live under the public media prefix.
func Qualify(img, host string) string {
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img
	}
	if strings.HasPrefix(img, "/") {
		return host + img
	}
	return host + PublicPrefix + "/" + img
}

// findFolder extracts the folder token from the cover URL when it points
// under the media prefix; failing that it matches the place name against the
// directories under the media root.
func (r *Resolver) findFolder(name string, cover *string) (string, error) {
	if cover != nil {
		if folder := folderFromURL(*cover); folder != "" {
			return folder, nil
		}
	}
	return r.matchFolder(name)
}

func folderFromURL(cover string) string {
	idx := strings.Index(cover, PublicPrefix+"/")
	if idx < 0 {
		return ""
	}
	rest := cover[idx+len(PublicPrefix)+1:]
	parts := strings.SplitN(rest, "/", 2)
	// A lone filename under /photos has no folder segment.
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	return parts[0]
}

// matchFolder looks for a media directory whose normalized name matches the
// place name. An exact normalized match wins outright; substring containment
// in either direction is accepted only when it is unambiguous.
func (r *Resolver) matchFolder(name string) (string, error) {
	key := normalizeName(name)
	if key == "" {
		return "", nil
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		// No media root means nothing to match, not a hard failure.
		return "", nil
	}

	var partial []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirKey := normalizeName(entry.Name())
		if dirKey == "" {
			continue
		}
		if dirKey == key {
			return entry.Name(), nil
		}
		if strings.Contains(dirKey, key) || strings.Contains(key, dirKey) {
			partial = append(partial, entry.Name())
		}
	}

	switch len(partial) {
	case 0:
		return "", nil
	case 1:
		return partial[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %s", ErrAmbiguousFolder, name, strings.Join(partial, ", "))
	}
}

// listFolder lists image files in a media folder, sorted by Russian locale
// collation, qualified with the request host.
func (r *Resolver) listFolder(folder, host string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, folder))
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}

	r.collator.SortStrings(names)

	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, host+PublicPrefix+"/"+folder+"/"+n)
	}
	return urls, nil
}

// normalizeName folds a display name for folder matching: lowercase, ё
// collapsed to е, ъ and apostrophes to ь, everything outside a-z, а-я and
// digits dropped.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == 'ё':
			b.WriteRune('е')
		case r == 'ъ' || r == '\'':
			b.WriteRune('ь')
		case r >= 'a' && r <= 'z', r >= 'а' && r <= 'я', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
