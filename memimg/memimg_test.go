package memimg

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDirScalesTiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, SkinName(0)), 64)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	c := NewCache(12)
	if err := c.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("Expected 1 skin, got %d", c.Len())
	}
	img, ok := c.Get("snake_0.png")
	if !ok {
		t.Fatal("Expected snake_0.png in cache")
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Errorf("Expected 12x12 tile, got %v", b)
	}
	if _, ok := c.GetBlurred("snake_0.png"); !ok {
		t.Errorf("Expected a blurred tile")
	}
}

func TestLoadDirMissingIsEmpty(t *testing.T) {
	c := NewCache(10)
	if err := c.LoadDir(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache")
	}
}

func TestWatchPicksUpNewSkins(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, dir) }()
	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	tmp := filepath.Join(t.TempDir(), "tile.png")
	writePNG(t, tmp, 16)
	if err := os.Rename(tmp, filepath.Join(dir, SkinName(2))); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := c.Get(SkinName(2)); ok {
			cancel()
			<-done
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("Watcher did not load the new skin")
}
