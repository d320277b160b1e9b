package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	adjacency "floorplan/internal/adjacency/models"
	"floorplan/internal/planner/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("not found")

// timeLayout фиксированной ширины, чтобы строки сортировались как время.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) CreateFloorplan(ctx context.Context, fp *models.Floorplan) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO floorplans (id, name, created_at, updated_at)
        VALUES (?, ?, ?, ?)
    `, fp.ID, fp.Name, formatTime(fp.CreatedAt), formatTime(fp.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert floorplan: %w", err)
	}
	return nil
}

func (r *Repository) ListFloorplans(ctx context.Context) ([]models.FloorplanSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT f.id, f.name, f.updated_at, (SELECT COUNT(*) FROM rooms r WHERE r.floorplan_id = f.id)
        FROM floorplans f
        ORDER BY f.updated_at DESC, f.id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FloorplanSummary{}
	for rows.Next() {
		var s models.FloorplanSummary
		var updated string
		if err := rows.Scan(&s.ID, &s.Name, &updated, &s.RoomCount); err != nil {
			return nil, err
		}
		s.UpdatedAt = parseTime(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetFloorplan загружает план вместе с комнатами, дверями и связями.
func (r *Repository) GetFloorplan(ctx context.Context, id string) (*models.Floorplan, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM floorplans
        WHERE id = ?
    `, id)

	var fp models.Floorplan
	var created, updated string
	if err := row.Scan(&fp.ID, &fp.Name, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	fp.CreatedAt = parseTime(created)
	fp.UpdatedAt = parseTime(updated)

	var err error
	if fp.Rooms, err = r.loadRooms(ctx, id); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	if fp.Connections, err = r.loadConnections(ctx, id); err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	if fp.Doors, err = r.loadDoors(ctx, id); err != nil {
		return nil, fmt.Errorf("load doors: %w", err)
	}
	return &fp, nil
}

// SaveFloorplan перезаписывает содержимое плана одной транзакцией.
func (r *Repository) SaveFloorplan(ctx context.Context, fp *models.Floorplan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE floorplans SET name = ?, updated_at = ? WHERE id = ?`,
		fp.Name, formatTime(fp.UpdatedAt), fp.ID)
	if err != nil {
		return fmt.Errorf("update floorplan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := deleteChildren(ctx, tx, fp.ID); err != nil {
		return err
	}

	for i, room := range fp.Rooms {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO rooms (floorplan_id, id, ord, name, x, z, length, width, rotation)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, fp.ID, room.ID, i, room.Name, room.Position.X, room.Position.Z, room.Length, room.Width, int(room.Rotation))
		if err != nil {
			return fmt.Errorf("insert room %s: %w", room.ID, err)
		}
	}

	for i, conn := range fp.Connections {
		doors, err := json.Marshal(nonNil(conn.Doors))
		if err != nil {
			return fmt.Errorf("encode doors: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO connections (floorplan_id, id, ord, room1_id, room2_id, room1_wall, room2_wall, shared_wall_length, doors, is_manual)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, fp.ID, conn.ID, i, conn.Room1ID, conn.Room2ID, string(conn.Room1Wall), string(conn.Room2Wall),
			conn.SharedWallLength, string(doors), boolToInt(conn.IsManual))
		if err != nil {
			return fmt.Errorf("insert connection %s: %w", conn.ID, err)
		}
	}

	for i, door := range fp.Doors {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO doors (floorplan_id, id, ord, room_id, connection_id, wall_side, position, width, height, is_exterior)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, fp.ID, door.ID, i, door.RoomID, door.ConnectionID, string(door.WallSide),
			door.Position, door.Width, door.Height, boolToInt(door.IsExterior))
		if err != nil {
			return fmt.Errorf("insert door %s: %w", door.ID, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) DeleteFloorplan(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteChildren(ctx, tx, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM floorplans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete floorplan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ============================================================
// Loaders
// ============================================================

func (r *Repository) loadRooms(ctx context.Context, floorplanID string) ([]adjacency.Room, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, x, z, length, width, rotation
        FROM rooms
        WHERE floorplan_id = ?
        ORDER BY ord
    `, floorplanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []adjacency.Room{}
	for rows.Next() {
		var room adjacency.Room
		var rotation int
		if err := rows.Scan(&room.ID, &room.Name, &room.Position.X, &room.Position.Z, &room.Length, &room.Width, &rotation); err != nil {
			return nil, err
		}
		room.Rotation = adjacency.Rotation(rotation)
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *Repository) loadConnections(ctx context.Context, floorplanID string) ([]adjacency.RoomConnection, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, room1_id, room2_id, room1_wall, room2_wall, shared_wall_length, doors, is_manual
        FROM connections
        WHERE floorplan_id = ?
        ORDER BY ord
    `, floorplanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []adjacency.RoomConnection{}
	for rows.Next() {
		var conn adjacency.RoomConnection
		var wall1, wall2, doors string
		var manual int
		if err := rows.Scan(&conn.ID, &conn.Room1ID, &conn.Room2ID, &wall1, &wall2, &conn.SharedWallLength, &doors, &manual); err != nil {
			return nil, err
		}
		conn.Room1Wall = adjacency.WallSide(wall1)
		conn.Room2Wall = adjacency.WallSide(wall2)
		conn.IsManual = manual != 0
		if err := json.Unmarshal([]byte(doors), &conn.Doors); err != nil {
			return nil, fmt.Errorf("decode doors of %s: %w", conn.ID, err)
		}
		conn.Doors = nonNil(conn.Doors)
		out = append(out, conn)
	}
	return out, rows.Err()
}

func (r *Repository) loadDoors(ctx context.Context, floorplanID string) ([]adjacency.Door, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, room_id, connection_id, wall_side, position, width, height, is_exterior
        FROM doors
        WHERE floorplan_id = ?
        ORDER BY ord
    `, floorplanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []adjacency.Door{}
	for rows.Next() {
		var door adjacency.Door
		var side string
		var exterior int
		if err := rows.Scan(&door.ID, &door.RoomID, &door.ConnectionID, &side, &door.Position, &door.Width, &door.Height, &exterior); err != nil {
			return nil, err
		}
		door.WallSide = adjacency.WallSide(side)
		door.IsExterior = exterior != 0
		out = append(out, door)
	}
	return out, rows.Err()
}

// ============================================================
// Migrations & helpers
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, floorplanID string) error {
	for _, table := range []string{"rooms", "connections", "doors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE floorplan_id = ?", floorplanID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
