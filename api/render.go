package api

import (
	"fmt"
	"image"
	"io"
	"sort"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-arena/config"
	"github.com/hoshinonyaruko/snake-arena/memimg"
	"github.com/hoshinonyaruko/snake-arena/structs"
)

// Render draws one frame of a round. It only reads the view.
func Render(view structs.Round, cfg *config.AppConfig, skins *memimg.Cache) image.Image {
	blockSize := cfg.Blocksize
	size := view.GridSize * blockSize
	dc := gg.NewContext(size, size)

	setRGB(dc, cfg.Background, 255)
	dc.Clear()

	renderWalls(dc, view.GridSize, blockSize, cfg.GridColor)
	renderGrid(dc, size, blockSize, cfg.GridColor)

	if view.Food.X >= 0 {
		setRGB(dc, cfg.FoodColor, 255)
		fillBlock(dc, view.Food, blockSize)
	}

	// 死蛇先画，活着的蛇盖在上面
	snakes := append([]structs.Snake(nil), view.Snakes...)
	sort.SliceStable(snakes, func(i, j int) bool { return !snakes[i].Alive && snakes[j].Alive })
	for _, s := range snakes {
		renderSnake(dc, s, cfg, skins)
	}

	renderScores(dc, view, cfg)
	return dc.Image()
}

func RenderToFile(view structs.Round, cfg *config.AppConfig, skins *memimg.Cache, fileName string) error {
	return gg.SavePNG(fileName, Render(view, cfg, skins))
}

func RenderPNG(view structs.Round, cfg *config.AppConfig, skins *memimg.Cache, w io.Writer) error {
	dc := gg.NewContextForImage(Render(view, cfg, skins))
	return dc.EncodePNG(w)
}

func renderSnake(dc *gg.Context, s structs.Snake, cfg *config.AppConfig, skins *memimg.Cache) {
	name := memimg.SkinName(s.ID)
	tile, ok := skins.Get(name)
	if !s.Alive {
		tile, ok = skins.GetBlurred(name)
	}
	alpha := 255
	if !s.Alive {
		alpha = 90
	}
	// 从蛇尾画到蛇头，保证蛇头在最上层
	for i := len(s.Positions) - 1; i >= 0; i-- {
		pos := s.Positions[i]
		if ok {
			dc.DrawImage(tile, pos.X*cfg.Blocksize, pos.Y*cfg.Blocksize)
			continue
		}
		setRGB(dc, cfg.Color(s.ID), alpha)
		fillBlock(dc, pos, cfg.Blocksize)
	}
}

func renderWalls(dc *gg.Context, gridSize, blockSize int, color config.RGB) {
	setRGB(dc, color, 255)
	for i := 0; i < gridSize; i++ {
		fillBlock(dc, structs.Position{X: i, Y: 0}, blockSize)
		fillBlock(dc, structs.Position{X: i, Y: gridSize - 1}, blockSize)
		fillBlock(dc, structs.Position{X: 0, Y: i}, blockSize)
		fillBlock(dc, structs.Position{X: gridSize - 1, Y: i}, blockSize)
	}
}

func renderGrid(dc *gg.Context, size, blockSize int, color config.RGB) {
	setRGB(dc, color, 255)
	dc.SetLineWidth(1)
	for x := 0; x <= size; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(size))
		dc.Stroke()
	}
	for y := 0; y <= size; y += blockSize {
		dc.DrawLine(0, float64(y), float64(size), float64(y))
		dc.Stroke()
	}
}

func renderScores(dc *gg.Context, view structs.Round, cfg *config.AppConfig) {
	for i, s := range view.Snakes {
		setRGB(dc, cfg.Color(s.ID), 255)
		label := fmt.Sprintf("Snake %d (%s): %d", s.ID+1, s.Algorithm, s.Score)
		if !s.Alive {
			label += " x"
		}
		dc.DrawString(label, 10, float64(20+i*16))
	}
	if view.Status == "over" {
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored("Game Over!", float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	}
}

func fillBlock(dc *gg.Context, pos structs.Position, blockSize int) {
	dc.DrawRectangle(float64(pos.X*blockSize), float64(pos.Y*blockSize), float64(blockSize), float64(blockSize))
	dc.Fill()
}

func setRGB(dc *gg.Context, c config.RGB, alpha int) {
	dc.SetRGBA255(int(c[0]), int(c[1]), int(c[2]), alpha)
}
