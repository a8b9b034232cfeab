package storage

import (
	"context"
	"database/sql"
	"ecosystem-server/internal/domain"
	"ecosystem-server/internal/engine"
	"ecosystem-server/pkg/logger"
	"ecosystem-server/pkg/utils"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	ecosystemColumns = `id, name, environment, water_available, min_water_to_add, max_water_to_add,
		cycle, day, year, simulation_status`
	organismColumns = `id, name, type, diet_type, weight, size, age, max_age, reproduction_age,
		fertility_rate, water_consumption, food_consumption, activity_cycle, speed, social_behavior,
		hunger, thirst, health, pregnant`
	plantColumns = `id, name, type, weight, size, age, max_age, reproduction_age, fertility_rate,
		water_need, health, fruiting`
	organismTemplateColumns = `name, type, diet_type, weight, size, age, max_age, reproduction_age,
		fertility_rate, water_consumption, food_consumption, activity_cycle, speed, social_behavior,
		prey_json, pollination_json`
	plantTemplateColumns = `name, type, weight, size, age, max_age, reproduction_age, fertility_rate, water_need`
)

// SQLiteStore persists ecosystems, templates and archived simulations in one
// SQLite database.
type SQLiteStore struct {
	conn *sqlx.DB
}

// OpenSQLite opens or creates the database at path (":memory:" for a
// throwaway one) and migrates its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: writes serialize anyway and ":memory:" lives per connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	s := &SQLiteStore{conn: conn}
	if err := s.initPragmas(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pragmas: %w", err)
	}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Log.WithField("component", "sqlite_store").WithField("path", path).Info("Database ready")
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) initPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := s.conn.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ecosystems (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		environment TEXT NOT NULL DEFAULT '',
		water_available REAL NOT NULL,
		min_water_to_add INTEGER NOT NULL,
		max_water_to_add INTEGER NOT NULL,
		cycle TEXT NOT NULL,
		day INTEGER NOT NULL,
		year INTEGER NOT NULL,
		simulation_status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS organism_templates (
		name TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		diet_type TEXT NOT NULL,
		weight REAL NOT NULL,
		size REAL NOT NULL,
		age REAL NOT NULL,
		max_age REAL NOT NULL,
		reproduction_age REAL NOT NULL,
		fertility_rate INTEGER NOT NULL,
		water_consumption REAL NOT NULL,
		food_consumption REAL NOT NULL,
		activity_cycle TEXT NOT NULL,
		speed TEXT NOT NULL,
		social_behavior TEXT NOT NULL,
		prey_json TEXT NOT NULL DEFAULT '[]',
		pollination_json TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS plant_templates (
		name TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		weight REAL NOT NULL,
		size REAL NOT NULL,
		age REAL NOT NULL,
		max_age REAL NOT NULL,
		reproduction_age REAL NOT NULL,
		fertility_rate INTEGER NOT NULL,
		water_need REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS organisms (
		id TEXT PRIMARY KEY,
		ecosystem_id TEXT NOT NULL REFERENCES ecosystems(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		diet_type TEXT NOT NULL,
		weight REAL NOT NULL,
		size REAL NOT NULL,
		age REAL NOT NULL,
		max_age REAL NOT NULL,
		reproduction_age REAL NOT NULL,
		fertility_rate INTEGER NOT NULL,
		water_consumption REAL NOT NULL,
		food_consumption REAL NOT NULL,
		activity_cycle TEXT NOT NULL,
		speed TEXT NOT NULL,
		social_behavior TEXT NOT NULL,
		hunger REAL NOT NULL,
		thirst REAL NOT NULL,
		health REAL NOT NULL,
		pregnant INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plants (
		id TEXT PRIMARY KEY,
		ecosystem_id TEXT NOT NULL REFERENCES ecosystems(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		weight REAL NOT NULL,
		size REAL NOT NULL,
		age REAL NOT NULL,
		max_age REAL NOT NULL,
		reproduction_age REAL NOT NULL,
		fertility_rate INTEGER NOT NULL,
		water_need REAL NOT NULL,
		health REAL NOT NULL,
		fruiting INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS predation (
		ecosystem_id TEXT NOT NULL REFERENCES ecosystems(id) ON DELETE CASCADE,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);

	CREATE TABLE IF NOT EXISTS pollination (
		ecosystem_id TEXT NOT NULL REFERENCES ecosystems(id) ON DELETE CASCADE,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);

	CREATE TABLE IF NOT EXISTS simulations (
		id TEXT PRIMARY KEY,
		ecosystem_id TEXT NOT NULL REFERENCES ecosystems(id) ON DELETE CASCADE,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		outcomes BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_organisms_ecosystem ON organisms(ecosystem_id, seq);
	CREATE INDEX IF NOT EXISTS idx_plants_ecosystem ON plants(ecosystem_id, seq);
	CREATE INDEX IF NOT EXISTS idx_predation_to ON predation(to_id);
	CREATE INDEX IF NOT EXISTS idx_pollination_to ON pollination(to_id);
	CREATE INDEX IF NOT EXISTS idx_simulations_ecosystem ON simulations(ecosystem_id, created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// --- engine.Store ---

func (s *SQLiteStore) Get(ctx context.Context, ecosystemID string) (*domain.Ecosystem, error) {
	return loadEcosystem(ctx, s.conn, ecosystemID)
}

func (s *SQLiteStore) CloneOrganismInto(ctx context.Context, ecosystemID, templateName string) (*domain.Organism, error) {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	eco, err := loadEcosystem(ctx, tx, ecosystemID)
	if err != nil {
		return nil, err
	}
	templates, err := organismTemplateIndex(ctx, tx)
	if err != nil {
		return nil, err
	}
	tmpl, ok := templates[templateName]
	if !ok {
		return nil, domain.NotFound("organism", "name")
	}

	member := tmpl.NewMember(utils.GenerateID())
	seq, err := nextSeq(ctx, tx, "organisms", ecosystemID)
	if err != nil {
		return nil, err
	}
	if err := insertOrganism(ctx, tx, ecosystemID, seq, member); err != nil {
		return nil, err
	}

	eco.AddOrganism(member)
	predation, pollination := organismWeb(eco, tmpl, templates.lookup, member.ID)
	if err := insertEdges(ctx, tx, "predation", ecosystemID, predation); err != nil {
		return nil, err
	}
	if err := insertEdges(ctx, tx, "pollination", ecosystemID, pollination); err != nil {
		return nil, err
	}

	return member, tx.Commit()
}

func (s *SQLiteStore) ClonePlantInto(ctx context.Context, ecosystemID, templateName string) (*domain.Plant, error) {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	eco, err := loadEcosystem(ctx, tx, ecosystemID)
	if err != nil {
		return nil, err
	}
	tmpl, err := plantTemplate(ctx, tx, templateName)
	if err != nil {
		return nil, err
	}
	templates, err := organismTemplateIndex(ctx, tx)
	if err != nil {
		return nil, err
	}

	member := tmpl.NewMember(utils.GenerateID())
	seq, err := nextSeq(ctx, tx, "plants", ecosystemID)
	if err != nil {
		return nil, err
	}
	if err := insertPlant(ctx, tx, ecosystemID, seq, member); err != nil {
		return nil, err
	}

	eco.AddPlant(member)
	if err := insertEdges(ctx, tx, "pollination", ecosystemID, plantWeb(eco, tmpl.Name, templates.lookup, member.ID)); err != nil {
		return nil, err
	}

	return member, tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, member domain.Member) error {
	table := "organisms"
	if member.MemberKind() == domain.KindPlant {
		table = "plants"
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, member.MemberID())
	if err != nil {
		return fmt.Errorf("delete %s: %w", member.MemberKind(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound(string(member.MemberKind()), "ID")
	}
	for _, edges := range []string{"predation", "pollination"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+edges+` WHERE from_id = ? OR to_id = ?`,
			member.MemberID(), member.MemberID()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Save replaces the stored graph of the ecosystem with eco (full replace).
func (s *SQLiteStore) Save(ctx context.Context, eco *domain.Ecosystem) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE ecosystems SET name = ?, environment = ?, water_available = ?,
		min_water_to_add = ?, max_water_to_add = ?, cycle = ?, day = ?, year = ?, simulation_status = ?
		WHERE id = ?`,
		eco.Name, string(eco.Environment), eco.WaterAvailable, eco.MinWaterToAdd, eco.MaxWaterToAdd,
		string(eco.Cycle), eco.Day, eco.Year, string(eco.SimulationStatus), eco.ID)
	if err != nil {
		return fmt.Errorf("update ecosystem: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("ecosystem", "ID")
	}

	for _, table := range []string{"predation", "pollination", "organisms", "plants"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE ecosystem_id = ?`, eco.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertMembers(ctx, tx, eco); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Ecosystems ---

func (s *SQLiteStore) CreateEcosystem(ctx context.Context, eco *domain.Ecosystem) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM ecosystems WHERE name = ?`, eco.Name); err != nil {
		return err
	}
	if n > 0 {
		return domain.AlreadyExists("ecosystem")
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO ecosystems (`+ecosystemColumns+`) VALUES (`+placeholders(10)+`)`,
		eco.ID, eco.Name, string(eco.Environment), eco.WaterAvailable, eco.MinWaterToAdd, eco.MaxWaterToAdd,
		string(eco.Cycle), eco.Day, eco.Year, string(eco.SimulationStatus))
	if err != nil {
		return fmt.Errorf("insert ecosystem: %w", err)
	}
	if err := insertMembers(ctx, tx, eco); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteEcosystem(ctx context.Context, ecosystemID string) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"predation", "pollination", "organisms", "plants", "simulations"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE ecosystem_id = ?`, ecosystemID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM ecosystems WHERE id = ?`, ecosystemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("ecosystem", "ID")
	}
	return tx.Commit()
}

// --- Organism templates ---

type organismTemplateRow struct {
	domain.Organism
	PreyJSON        string `db:"prey_json"`
	PollinationJSON string `db:"pollination_json"`
}

func (r organismTemplateRow) template() (domain.OrganismTemplate, error) {
	t := domain.OrganismTemplate{Organism: r.Organism}
	if err := json.Unmarshal([]byte(r.PreyJSON), &t.Prey); err != nil {
		return t, fmt.Errorf("decode prey of %q: %w", r.Name, err)
	}
	if err := json.Unmarshal([]byte(r.PollinationJSON), &t.PollinationTargets); err != nil {
		return t, fmt.Errorf("decode pollination targets of %q: %w", r.Name, err)
	}
	return t, nil
}

func (s *SQLiteStore) CreateOrganismTemplate(ctx context.Context, t domain.OrganismTemplate) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM organism_templates WHERE name = ?`, t.Name); err != nil {
		return err
	}
	if n > 0 {
		return domain.AlreadyExists("organism")
	}

	args, err := organismTemplateArgs(t)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO organism_templates (`+organismTemplateColumns+`) VALUES (`+placeholders(16)+`)`, args...)
	if err != nil {
		return fmt.Errorf("insert organism template: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) OrganismTemplate(ctx context.Context, name string) (domain.OrganismTemplate, error) {
	var row organismTemplateRow
	err := s.conn.GetContext(ctx, &row, `SELECT `+organismTemplateColumns+` FROM organism_templates WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrganismTemplate{}, domain.NotFound("organism", "name")
	}
	if err != nil {
		return domain.OrganismTemplate{}, err
	}
	return row.template()
}

func (s *SQLiteStore) OrganismTemplates(ctx context.Context) ([]domain.OrganismTemplate, error) {
	index, err := organismTemplateIndex(ctx, s.conn)
	if err != nil {
		return nil, err
	}
	return index.sorted(), nil
}

func (s *SQLiteStore) UpdateOrganismTemplate(ctx context.Context, t domain.OrganismTemplate) error {
	args, err := organismTemplateArgs(t)
	if err != nil {
		return err
	}
	// name goes last, into the WHERE clause
	args = append(args[1:], t.Name)

	res, err := s.conn.ExecContext(ctx, `UPDATE organism_templates SET type = ?, diet_type = ?, weight = ?, size = ?,
		age = ?, max_age = ?, reproduction_age = ?, fertility_rate = ?, water_consumption = ?, food_consumption = ?,
		activity_cycle = ?, speed = ?, social_behavior = ?, prey_json = ?, pollination_json = ?
		WHERE name = ?`, args...)
	if err != nil {
		return fmt.Errorf("update organism template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("organism", "name")
	}
	return nil
}

func (s *SQLiteStore) DeleteOrganismTemplate(ctx context.Context, name string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM organism_templates WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("organism", "name")
	}
	return nil
}

// --- Plant templates ---

func (s *SQLiteStore) CreatePlantTemplate(ctx context.Context, t domain.PlantTemplate) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM plant_templates WHERE name = ?`, t.Name); err != nil {
		return err
	}
	if n > 0 {
		return domain.AlreadyExists("plant")
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO plant_templates (`+plantTemplateColumns+`) VALUES (`+placeholders(9)+`)`,
		t.Name, string(t.Type), t.Weight, t.Size, t.Age, t.MaxAge, t.ReproductionAge, t.FertilityRate, t.WaterNeed)
	if err != nil {
		return fmt.Errorf("insert plant template: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) PlantTemplate(ctx context.Context, name string) (domain.PlantTemplate, error) {
	return plantTemplate(ctx, s.conn, name)
}

func (s *SQLiteStore) PlantTemplates(ctx context.Context) ([]domain.PlantTemplate, error) {
	var res []domain.PlantTemplate
	if err := s.conn.SelectContext(ctx, &res, `SELECT `+plantTemplateColumns+` FROM plant_templates ORDER BY name`); err != nil {
		return nil, fmt.Errorf("load plant templates: %w", err)
	}
	return res, nil
}

func (s *SQLiteStore) UpdatePlantTemplate(ctx context.Context, t domain.PlantTemplate) error {
	res, err := s.conn.ExecContext(ctx, `UPDATE plant_templates SET type = ?, weight = ?, size = ?, age = ?,
		max_age = ?, reproduction_age = ?, fertility_rate = ?, water_need = ? WHERE name = ?`,
		string(t.Type), t.Weight, t.Size, t.Age, t.MaxAge, t.ReproductionAge, t.FertilityRate, t.WaterNeed, t.Name)
	if err != nil {
		return fmt.Errorf("update plant template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("plant", "name")
	}
	return nil
}

func (s *SQLiteStore) DeletePlantTemplate(ctx context.Context, name string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM plant_templates WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("plant", "name")
	}
	return nil
}

// --- engine.ResultArchive ---

func (s *SQLiteStore) ArchiveSimulation(ctx context.Context, rec engine.SimulationRecord) error {
	blob, err := encodeArchive(rec)
	if err != nil {
		return fmt.Errorf("encode simulation: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `INSERT INTO simulations (id, ecosystem_id, seed, ticks, created_at, outcomes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.EcosystemID, rec.Seed, rec.Ticks, rec.CreatedAt.UnixMilli(), blob)
	if err != nil {
		return fmt.Errorf("insert simulation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Simulations(ctx context.Context, ecosystemID string) ([]engine.SimulationRecord, error) {
	var rows []struct {
		ID       string `db:"id"`
		Outcomes []byte `db:"outcomes"`
	}
	if err := s.conn.SelectContext(ctx, &rows, `SELECT id, outcomes FROM simulations
		WHERE ecosystem_id = ? ORDER BY created_at, id`, ecosystemID); err != nil {
		return nil, fmt.Errorf("load simulations: %w", err)
	}

	res := make([]engine.SimulationRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := decodeArchive(r.Outcomes)
		if err != nil {
			return nil, fmt.Errorf("decode simulation %s: %w", r.ID, err)
		}
		rec.ID = r.ID
		rec.EcosystemID = ecosystemID
		res = append(res, rec)
	}
	return res, nil
}

// --- helpers ---

func loadEcosystem(ctx context.Context, q sqlx.QueryerContext, id string) (*domain.Ecosystem, error) {
	eco := &domain.Ecosystem{}
	err := sqlx.GetContext(ctx, q, eco, `SELECT `+ecosystemColumns+` FROM ecosystems WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("ecosystem", "ID")
	}
	if err != nil {
		return nil, fmt.Errorf("load ecosystem: %w", err)
	}

	if err := sqlx.SelectContext(ctx, q, &eco.Organisms,
		`SELECT `+organismColumns+` FROM organisms WHERE ecosystem_id = ? ORDER BY seq`, id); err != nil {
		return nil, fmt.Errorf("load organisms: %w", err)
	}
	if err := sqlx.SelectContext(ctx, q, &eco.Plants,
		`SELECT `+plantColumns+` FROM plants WHERE ecosystem_id = ? ORDER BY seq`, id); err != nil {
		return nil, fmt.Errorf("load plants: %w", err)
	}

	var predation, pollination []domain.Edge
	if err := sqlx.SelectContext(ctx, q, &predation, `SELECT from_id, to_id FROM predation WHERE ecosystem_id = ?`, id); err != nil {
		return nil, fmt.Errorf("load predation: %w", err)
	}
	if err := sqlx.SelectContext(ctx, q, &pollination, `SELECT from_id, to_id FROM pollination WHERE ecosystem_id = ?`, id); err != nil {
		return nil, fmt.Errorf("load pollination: %w", err)
	}

	eco.Relations = domain.NewRelationIndex()
	for _, e := range predation {
		eco.Relations.LinkPredation(e.From, e.To)
	}
	for _, e := range pollination {
		eco.Relations.LinkPollination(e.From, e.To)
	}
	return eco, nil
}

func insertMembers(ctx context.Context, x sqlx.ExecerContext, eco *domain.Ecosystem) error {
	for i, o := range eco.Organisms {
		if err := insertOrganism(ctx, x, eco.ID, i, o); err != nil {
			return err
		}
	}
	for i, p := range eco.Plants {
		if err := insertPlant(ctx, x, eco.ID, i, p); err != nil {
			return err
		}
	}
	if err := insertEdges(ctx, x, "predation", eco.ID, eco.Links().PredationEdges()); err != nil {
		return err
	}
	return insertEdges(ctx, x, "pollination", eco.ID, eco.Links().PollinationEdges())
}

func insertOrganism(ctx context.Context, x sqlx.ExecerContext, ecosystemID string, seq int, o *domain.Organism) error {
	_, err := x.ExecContext(ctx, `INSERT INTO organisms (ecosystem_id, seq, `+organismColumns+`)
		VALUES (`+placeholders(21)+`)`,
		ecosystemID, seq, o.ID, o.Name, string(o.Type), string(o.Diet), o.Weight, o.Size, o.Age, o.MaxAge,
		o.ReproductionAge, o.FertilityRate, o.WaterConsumption, o.FoodConsumption,
		string(o.ActivityCycle), string(o.Speed), string(o.SocialBehavior),
		o.Hunger, o.Thirst, o.Health, o.Pregnant)
	if err != nil {
		return fmt.Errorf("insert organism %s: %w", o.ID, err)
	}
	return nil
}

func insertPlant(ctx context.Context, x sqlx.ExecerContext, ecosystemID string, seq int, p *domain.Plant) error {
	_, err := x.ExecContext(ctx, `INSERT INTO plants (ecosystem_id, seq, `+plantColumns+`)
		VALUES (`+placeholders(14)+`)`,
		ecosystemID, seq, p.ID, p.Name, string(p.Type), p.Weight, p.Size, p.Age, p.MaxAge,
		p.ReproductionAge, p.FertilityRate, p.WaterNeed, p.Health, p.Fruiting)
	if err != nil {
		return fmt.Errorf("insert plant %s: %w", p.ID, err)
	}
	return nil
}

// insertEdges writes into "predation" or "pollination".
func insertEdges(ctx context.Context, x sqlx.ExecerContext, table, ecosystemID string, edges []domain.Edge) error {
	for _, e := range edges {
		if _, err := x.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+` (ecosystem_id, from_id, to_id) VALUES (?, ?, ?)`,
			ecosystemID, e.From, e.To); err != nil {
			return fmt.Errorf("insert %s edge: %w", table, err)
		}
	}
	return nil
}

func nextSeq(ctx context.Context, q sqlx.QueryerContext, table, ecosystemID string) (int, error) {
	var seq int
	err := sqlx.GetContext(ctx, q, &seq, `SELECT COALESCE(MAX(seq), -1) + 1 FROM `+table+` WHERE ecosystem_id = ?`, ecosystemID)
	return seq, err
}

func plantTemplate(ctx context.Context, q sqlx.QueryerContext, name string) (domain.PlantTemplate, error) {
	var t domain.PlantTemplate
	err := sqlx.GetContext(ctx, q, &t, `SELECT `+plantTemplateColumns+` FROM plant_templates WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return t, domain.NotFound("plant", "name")
	}
	return t, err
}

// templateIndex is every organism template keyed by name.
type templateIndex map[string]domain.OrganismTemplate

func (idx templateIndex) lookup(name string) (domain.OrganismTemplate, bool) {
	t, ok := idx[name]
	return t, ok
}

func (idx templateIndex) sorted() []domain.OrganismTemplate {
	res := make([]domain.OrganismTemplate, 0, len(idx))
	for _, t := range idx {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

func organismTemplateIndex(ctx context.Context, q sqlx.QueryerContext) (templateIndex, error) {
	var rows []organismTemplateRow
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT `+organismTemplateColumns+` FROM organism_templates`); err != nil {
		return nil, fmt.Errorf("load organism templates: %w", err)
	}
	idx := make(templateIndex, len(rows))
	for _, r := range rows {
		t, err := r.template()
		if err != nil {
			return nil, err
		}
		idx[t.Name] = t
	}
	return idx, nil
}

func organismTemplateArgs(t domain.OrganismTemplate) ([]any, error) {
	prey, err := json.Marshal(nonNil(t.Prey))
	if err != nil {
		return nil, err
	}
	pollination, err := json.Marshal(nonNil(t.PollinationTargets))
	if err != nil {
		return nil, err
	}
	return []any{
		t.Name, string(t.Type), string(t.Diet), t.Weight, t.Size, t.Age, t.MaxAge, t.ReproductionAge,
		t.FertilityRate, t.WaterConsumption, t.FoodConsumption,
		string(t.ActivityCycle), string(t.Speed), string(t.SocialBehavior),
		string(prey), string(pollination),
	}, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var (
	_ engine.Repository    = (*SQLiteStore)(nil)
	_ engine.ResultArchive = (*SQLiteStore)(nil)
)
