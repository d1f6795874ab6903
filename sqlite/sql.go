package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/snake-arena/pathfind"
	"github.com/hoshinonyaruko/snake-arena/snake"
	"github.com/hoshinonyaruko/snake-arena/structs"
	_ "github.com/mattn/go-sqlite3"
)

var ErrRoundNotFound = errors.New("sqlite: round not found")

const createRoundsTableSQL = `
CREATE TABLE IF NOT EXISTS Rounds (
    RoomID TEXT PRIMARY KEY,
    RoundID TEXT,
    GridSize INTEGER,
    InitialLength INTEGER,
    Seed INTEGER,
    Starts TEXT,
    Food TEXT,
    Status INTEGER,
    Ticks INTEGER,
    Paused INTEGER,
    UpdatedAt TIMESTAMP
);
`

const createSnakesTableSQL = `
CREATE TABLE IF NOT EXISTS Snakes (
    RoomID TEXT,
    SnakeID INTEGER,
    Algorithm TEXT,
    Positions TEXT,
    Direction TEXT,
    Score INTEGER,
    Alive INTEGER,
    PRIMARY KEY (RoomID, SnakeID)
);
`

const createSnakesIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_snake_room ON Snakes (RoomID);
`

// Record is the latest state of one room. Each save replaces the previous one.
type Record struct {
	RoomID  string
	RoundID string
	Paused  bool
	Config  snake.Config
	State   snake.State
}

// Open opens the database file and creates the tables.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := InitializeDatabase(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func executeSQL(ctx context.Context, db *sql.DB, sqlStatement string) error {
	if _, err := db.ExecContext(ctx, sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createRoundsTableSQL, createSnakesTableSQL, createSnakesIndexSQL} {
		if err := executeSQL(ctx, db, stmt); err != nil {
			return err
		}
	}
	return nil
}

func SaveRound(ctx context.Context, db *sql.DB, rec Record) error {
	starts, err := json.Marshal(structs.FromCells(rec.Config.Starts))
	if err != nil {
		return err
	}
	food, err := json.Marshal(structs.FromCell(rec.State.Food))
	if err != nil {
		return err
	}

	// 开启事务
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO Rounds
		(RoomID, RoundID, GridSize, InitialLength, Seed, Starts, Food, Status, Ticks, Paused, UpdatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RoomID, rec.RoundID, rec.Config.GridSize, rec.Config.InitialLength, rec.Config.Seed,
		string(starts), string(food), int(rec.State.Status), rec.State.Ticks, rec.Paused, time.Now())
	if err != nil {
		return err
	}

	// 蛇的数量可能随重置变化，先清掉旧记录
	if _, err = tx.ExecContext(ctx, "DELETE FROM Snakes WHERE RoomID = ?", rec.RoomID); err != nil {
		return err
	}
	for _, s := range rec.State.Snakes {
		positions, err := json.Marshal(structs.FromCells(s.Body))
		if err != nil {
			return err
		}
		direction, err := json.Marshal(structs.FromCell(s.Direction))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO Snakes
			(RoomID, SnakeID, Algorithm, Positions, Direction, Score, Alive)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RoomID, s.ID, s.Algorithm.String(), string(positions), string(direction), s.Score, s.Alive)
		if err != nil {
			return err
		}
	}

	// 提交事务
	return tx.Commit()
}

func LoadRound(ctx context.Context, db *sql.DB, roomID string) (Record, error) {
	rec := Record{RoomID: roomID}
	var startsData, foodData string
	var status int
	err := db.QueryRowContext(ctx,
		"SELECT RoundID, GridSize, InitialLength, Seed, Starts, Food, Status, Ticks, Paused FROM Rounds WHERE RoomID = ?", roomID).Scan(
		&rec.RoundID, &rec.Config.GridSize, &rec.Config.InitialLength, &rec.Config.Seed,
		&startsData, &foodData, &status, &rec.State.Ticks, &rec.Paused,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %s", ErrRoundNotFound, roomID)
	}
	if err != nil {
		return rec, err
	}
	rec.State.Status = snake.Status(status)

	var starts []structs.Position
	if err := json.Unmarshal([]byte(startsData), &starts); err != nil {
		return rec, err
	}
	rec.Config.Starts = structs.ToCells(starts)
	var food structs.Position
	if err := json.Unmarshal([]byte(foodData), &food); err != nil {
		return rec, err
	}
	rec.State.Food = food.Cell()

	rows, err := db.QueryContext(ctx,
		"SELECT SnakeID, Algorithm, Positions, Direction, Score, Alive FROM Snakes WHERE RoomID = ? ORDER BY SnakeID", roomID)
	if err != nil {
		return rec, err
	}
	defer rows.Close()

	for rows.Next() {
		var s snake.SnakeState
		var algName, posData, dirData string
		if err := rows.Scan(&s.ID, &algName, &posData, &dirData, &s.Score, &s.Alive); err != nil {
			return rec, err
		}
		if s.Algorithm, err = pathfind.ParseAlgorithm(algName); err != nil {
			return rec, err
		}
		var positions []structs.Position
		if err := json.Unmarshal([]byte(posData), &positions); err != nil {
			return rec, err
		}
		s.Body = structs.ToCells(positions)
		var dir structs.Position
		if err := json.Unmarshal([]byte(dirData), &dir); err != nil {
			return rec, err
		}
		s.Direction = dir.Cell()
		rec.State.Snakes = append(rec.State.Snakes, s)
		rec.Config.Algorithms = append(rec.Config.Algorithms, s.Algorithm)
	}
	return rec, rows.Err()
}

// RoomIDs lists every stored room.
func RoomIDs(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT RoomID FROM Rounds ORDER BY RoomID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func DeleteRound(ctx context.Context, db *sql.DB, roomID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM Snakes WHERE RoomID = ?", roomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM Rounds WHERE RoomID = ?", roomID); err != nil {
		return err
	}
	return tx.Commit()
}

// Restore rebuilds the live round stored in rec.
func (rec Record) Restore() (*snake.Round, error) {
	return snake.Restore(rec.Config, rec.State)
}
