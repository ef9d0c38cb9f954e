package archive

import (
	"reflect"
	"strings"
	"testing"

	"github.com/opencongress/congresso/models"
)

func TestGalleryPaths(t *testing.T) {
	congress := &models.Congress{Slug: "annual-2024", ImageCount: 3}

	got := GalleryPaths(congress)
	want := []string{
		"congresses/annual-2024/photos/1.jpg",
		"congresses/annual-2024/photos/2.jpg",
		"congresses/annual-2024/photos/3.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GalleryPaths = %v, want %v", got, want)
	}
}

func TestGalleryPathsNoImages(t *testing.T) {
	congress := &models.Congress{Slug: "empty", ImageCount: 0}
	if got := GalleryPaths(congress); len(got) != 0 {
		t.Errorf("expected no paths, got %v", got)
	}
}

func TestPosterPath(t *testing.T) {
	congress := &models.Congress{Slug: "annual-2024", PosterPath: "poster.jpg"}
	if got := PosterPath(congress); got != "congresses/annual-2024/poster.jpg" {
		t.Errorf("PosterPath = %q", got)
	}

	congress.PosterPath = ""
	if got := PosterPath(congress); got != "" {
		t.Errorf("expected empty path for congress without poster, got %q", got)
	}
}

func TestRenderDescription(t *testing.T) {
	htmlOut, err := RenderDescription("# Welcome\n\nThe **annual** congress.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(htmlOut, "<h1") || !strings.Contains(htmlOut, "<strong>annual</strong>") {
		t.Errorf("unexpected HTML output: %q", htmlOut)
	}
}

func TestRenderDescriptionEmpty(t *testing.T) {
	htmlOut, err := RenderDescription("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if htmlOut != "" {
		t.Errorf("empty description should render empty, got %q", htmlOut)
	}
}
