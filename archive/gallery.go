// Package archive resolves the static assets that belong to a past
// congress: its photo gallery and its markdown description.
package archive

import (
	"fmt"

	"github.com/opencongress/congresso/models"
)

// GalleryPaths returns the storage paths of a congress's gallery
// photos in display order. Photos follow a fixed naming convention
// under the congress folder, so a congress with an image count of
// three resolves to photos/1.jpg through photos/3.jpg.
func GalleryPaths(congress *models.Congress) []string {
	paths := make([]string, 0, congress.ImageCount)
	for i := 1; i <= congress.ImageCount; i++ {
		paths = append(paths, fmt.Sprintf("congresses/%s/photos/%d.jpg", congress.Slug, i))
	}
	return paths
}

// PosterPath returns the storage path of the congress poster, or an
// empty string if the congress has none.
func PosterPath(congress *models.Congress) string {
	if congress.PosterPath == "" {
		return ""
	}
	return fmt.Sprintf("congresses/%s/%s", congress.Slug, congress.PosterPath)
}
