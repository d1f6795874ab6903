package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-arena/config"
	"github.com/hoshinonyaruko/snake-arena/snake"
)

const maxTicksPerRequest = 1000

// Register 注册所有路由
func Register(router *gin.Engine, h *Hub) {
	// 重置/创建回合
	router.GET("/new-round", NewRoundHandler(h))
	// 当前状态
	router.GET("/state", StateHandler(h))
	// 手动推进若干步
	router.GET("/tick", TickHandler(h))
	// 暂停与继续
	router.GET("/pause", PauseHandler(h))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(h))
	// 直接返回png
	router.GET("/frame", FrameHandler(h))
	// 删除房间
	router.GET("/delete-round", DeleteRoundHandler(h))
	// websocket 实时观看
	router.GET("/watch", WatchHandler(h))
	router.Static("/static", h.cfg.StaticDir) // 静态文件服务
}

func NewRoundHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("roomid")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: roomid"})
			return
		}
		o := config.Overrides{
			GridSize:   c.Query("gridsize"),
			Algorithms: c.Query("algorithms"),
		}
		var err error
		if v := c.Query("initiallength"); v != "" {
			if o.InitialLength, err = strconv.Atoi(v); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "initiallength must be an integer"})
				return
			}
		}
		if v := c.Query("seed"); v != "" {
			if o.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
				return
			}
		}

		room, err := h.NewRound(roomID, o)
		if err != nil {
			if errors.Is(err, snake.ErrInvalidConfig) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Printf("new round in %s: %v", roomID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create round"})
			return
		}
		c.JSON(http.StatusOK, room.View())
	}
}

// roomFromQuery writes the error response itself when it returns nil.
func roomFromQuery(c *gin.Context, h *Hub) *Room {
	roomID := c.Query("roomid")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: roomid"})
		return nil
	}
	room, err := h.Room(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No round in room %q", roomID)})
		return nil
	}
	return room
}

func StateHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := roomFromQuery(c, h)
		if room == nil {
			return
		}
		c.JSON(http.StatusOK, room.View())
	}
}

func TickHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := roomFromQuery(c, h)
		if room == nil {
			return
		}
		n, err := strconv.Atoi(c.DefaultQuery("n", "1"))
		if err != nil || n < 1 || n > maxTicksPerRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("n must be between 1 and %d", maxTicksPerRequest)})
			return
		}
		c.JSON(http.StatusOK, room.Advance(n))
	}
}

func PauseHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := roomFromQuery(c, h)
		if room == nil {
			return
		}
		paused, err := strconv.ParseBool(c.DefaultQuery("paused", "true"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paused must be true or false"})
			return
		}
		c.JSON(http.StatusOK, room.SetPaused(paused))
	}
}

func RenderMapHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := roomFromQuery(c, h)
		if room == nil {
			return
		}
		fileName := filepath.Join(h.cfg.StaticDir, room.ID()+".png")
		if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create static directory"})
			return
		}
		// 绘图
		if err := RenderToFile(room.View(), h.cfg, h.skins, fileName); err != nil {
			log.Printf("render %s: %v", room.ID(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}
		imageUrl := fmt.Sprintf("http://%s/static/%s.png", h.cfg.SelfPath, room.ID())
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl})
	}
}

func FrameHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := roomFromQuery(c, h)
		if room == nil {
			return
		}
		var buf bytes.Buffer
		if err := RenderPNG(room.View(), h.cfg, h.skins, &buf); err != nil {
			log.Printf("render %s: %v", room.ID(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render frame"})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func DeleteRoundHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("roomid")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: roomid"})
			return
		}
		if err := h.Delete(roomID); err != nil {
			if errors.Is(err, ErrRoomNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete round"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Round deleted successfully"})
	}
}

// WatchHandler streams a view after every tick. Viewers cannot steer snakes.
func WatchHandler(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := roomFromQuery(c, h)
		if room == nil {
			return
		}
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}
		room.addConn(conn)
		if err := room.send(conn, room.View()); err != nil {
			room.dropConn(conn)
			return
		}

		go func() {
			defer room.dropConn(conn)
			// 只读连接，读到错误说明客户端断开
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
