package structs

// Position 描述地图上的一个坐标位置。
type Position struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Snake 描述一条蛇对外可见的状态。
type Snake struct {
	ID        int        `json:"id"`        // 蛇的编号，即回合内的固定顺序
	Algorithm string     `json:"algorithm"` // 寻路算法（"Dijkstra", "A*", "BFS"）
	Positions []Position `json:"positions"` // 蛇身上的每个格子的位置，蛇头在前
	Direction Position   `json:"direction"` // 当前朝向（单位向量）
	Score     int        `json:"score"`     // 吃到食物的次数
	Alive     bool       `json:"alive"`     // 是否存活
}

// Round 描述一个房间当前回合的状态。
type Round struct {
	RoomID   string   `json:"room_id"`  // 房间标识
	RoundID  string   `json:"round_id"` // 回合标识，每次重置生成
	GridSize int      `json:"grid_size"`
	Food     Position `json:"food"`   // 食物位置，棋盘满时为 (-1,-1)
	Snakes   []Snake  `json:"snakes"` // 按编号排列
	Status   string   `json:"status"` // "continuing" 或 "over"
	Tick     int      `json:"tick"`
	Paused   bool     `json:"paused"`
	Winner   *int     `json:"winner,omitempty"` // 回合结束且只剩一条蛇时的编号
}
