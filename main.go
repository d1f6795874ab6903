package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-arena/api"
	"github.com/hoshinonyaruko/snake-arena/config"
	"github.com/hoshinonyaruko/snake-arena/memimg"
	"github.com/hoshinonyaruko/snake-arena/sqlite"
)

func main() {
	// Initialize the configuration
	cfg, err := config.LoadConfig("./config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	EnsureFoldersExist(cfg.StaticDir, cfg.SkinsDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 载入蛇皮到内存
	skins := memimg.NewCache(cfg.Blocksize)
	if err := skins.LoadDir(cfg.SkinsDir); err != nil {
		log.Printf("Failed to load skins: %v", err)
	}
	// 检测并热更新到内存 加速绘图
	go func() {
		if err := skins.Watch(ctx, cfg.SkinsDir); err != nil {
			log.Printf("skin watcher stopped: %v", err)
		}
	}()

	hub := api.NewHub(cfg, db, skins)
	if err := hub.RestoreRooms(ctx); err != nil {
		log.Printf("Failed to restore rooms: %v", err)
	}

	router := gin.Default()
	api.Register(router, hub)

	// 从配置单例读取端口 监听
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()
	log.Printf("snake arena listening on :%s", cfg.Port)

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	// 停止所有房间并保存最后状态
	hub.Close()
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755)
			if err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
