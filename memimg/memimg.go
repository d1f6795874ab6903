// 蛇皮图片缓存，目录变化时热更新到内存
package memimg

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Cache holds skin tiles scaled to one block, plus a blurred copy of each
// used for dead snakes.
type Cache struct {
	blockSize int

	mu      sync.RWMutex
	skins   map[string]image.Image
	blurred map[string]image.Image
}

func NewCache(blockSize int) *Cache {
	return &Cache{
		blockSize: blockSize,
		skins:     make(map[string]image.Image),
		blurred:   make(map[string]image.Image),
	}
}

// SkinName is the file a snake's tile is read from.
func SkinName(id int) string {
	return "snake_" + strconv.Itoa(id) + ".png"
}

// LoadDir loads every image in directory. A missing directory is not an error.
func (c *Cache) LoadDir(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isImage(path) {
			return nil
		}
		return c.loadFile(path)
	})
}

func (c *Cache) loadFile(path string) error {
	img, err := LoadImage(path)
	if err != nil {
		return err
	}
	// 缩放到格子大小，并预先生成模糊版本
	scaled := imaging.Resize(img, c.blockSize, c.blockSize, imaging.Lanczos)
	blurred := imaging.Blur(scaled, 1.5)

	name := filepath.Base(path)
	c.mu.Lock()
	c.skins[name] = scaled
	c.blurred[name] = blurred
	c.mu.Unlock()
	return nil
}

func (c *Cache) remove(path string) {
	name := filepath.Base(path)
	c.mu.Lock()
	delete(c.skins, name)
	delete(c.blurred, name)
	c.mu.Unlock()
}

func (c *Cache) Get(name string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.skins[name]
	return img, ok
}

func (c *Cache) GetBlurred(name string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.blurred[name]
	return img, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.skins)
}

func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Watch reloads tiles written to directory until ctx is done.
func (c *Cache) Watch(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImage(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				if err := c.loadFile(event.Name); err != nil {
					log.Printf("skin %s: %v", event.Name, err)
				}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				c.remove(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("skin watcher: %v", err)
		}
	}
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
