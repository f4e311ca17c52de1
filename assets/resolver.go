// Package assets locates the photos that belong to an inventory item.
//
// Items are photographed into folders under an assets root whose names start
// with the item's inventory code ("A1001", "A1001 - Lathe", ...). Each folder
// holds a photos/ subfolder of JPEG/PNG files.
package assets

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"inventory-catalog/models"
)

// PhotosDir is the subfolder of an item folder that holds its images.
const PhotosDir = "photos"

// imageExtensions is matched exactly, in this order; ".Jpg" and friends are
// not picked up.
var imageExtensions = []string{".jpg", ".jpeg", ".JPG", ".JPEG", ".png", ".PNG"}

// Resolver finds item folders and images inside a repository tree.
type Resolver struct {
	fsys      fs.FS
	assetsDir string
}

// NewResolver returns a Resolver over fsys, which must be rooted at the
// repository root. assetsDir is the slash-separated path of the assets root
// inside it; returned image paths are relative to fsys's root.
func NewResolver(fsys fs.FS, assetsDir string) *Resolver {
	return &Resolver{fsys: fsys, assetsDir: path.Clean(assetsDir)}
}

// NewDirResolver returns a Resolver for an assets root on the host
// filesystem. Its parent directory is treated as the repository root.
func NewDirResolver(assetsRoot string) *Resolver {
	abs, err := filepath.Abs(assetsRoot)
	if err != nil {
		abs = filepath.Clean(assetsRoot)
	}
	return NewResolver(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}

// Resolve returns the images for itemCode. Missing folders are not errors:
// they produce an empty match, with FolderName set if only photos/ is absent.
func (r *Resolver) Resolve(itemCode string) models.AssetMatch {
	match := models.AssetMatch{Images: []string{}}

	folder, ok := r.findFolder(itemCode)
	if !ok {
		return match
	}
	match.FolderName = folder

	photos := path.Join(r.assetsDir, folder, PhotosDir)
	entries, err := fs.ReadDir(r.fsys, photos)
	if err != nil {
		return match
	}

	var names []string
	for _, ext := range imageExtensions {
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") {
				continue
			}
			if path.Ext(name) == ext {
				names = append(names, name)
			}
		}
	}

	SortNatural(names)

	for _, name := range names {
		match.Images = append(match.Images, path.Join(photos, name))
	}
	return match
}

// findFolder picks the lexicographically first entry of the assets root whose
// name starts with itemCode.
func (r *Resolver) findFolder(itemCode string) (string, bool) {
	if itemCode == "" {
		return "", false
	}
	entries, err := fs.ReadDir(r.fsys, r.assetsDir)
	if err != nil {
		return "", false
	}
	// fs.ReadDir returns entries sorted by name.
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), itemCode) {
			return e.Name(), true
		}
	}
	return "", false
}

// SortNatural orders file names by the number formed from all digits in the
// name's stem, then by the stem itself, so photo_2 sorts before photo_10.
// Names with equal keys keep their relative order.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		si, sj := stem(names[i]), stem(names[j])
		if c := compareDigits(digitsOf(si), digitsOf(sj)); c != 0 {
			return c < 0
		}
		return si < sj
	})
}

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// digitsOf concatenates every ASCII digit in s and drops leading zeros, so an
// empty result stands for zero.
func digitsOf(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

// compareDigits compares two zero-stripped decimal strings numerically
// without converting them, so long digit runs cannot overflow.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
