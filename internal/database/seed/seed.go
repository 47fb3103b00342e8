package seed

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"armory/internal/repository"
	"armory/pkg/models"
	"armory/pkg/roles"
)

var sampleBases = []struct {
	Name     string
	Location string
}{
	{"Fort Bragg", "North Carolina, USA"},
	{"Camp Pendleton", "California, USA"},
	{"Norfolk Naval Base", "Virginia, USA"},
}

var sampleAssets = []struct {
	Type        string
	Description string
}{
	{models.AssetTypeWeapons, "M4A1 Carbine"},
	{models.AssetTypeWeapons, "M249 SAW"},
	{models.AssetTypeWeapons, "M240B Machine Gun"},
	{models.AssetTypeVehicles, "HUMVEE M1165"},
	{models.AssetTypeVehicles, "M1A2 Abrams Tank"},
	{models.AssetTypeVehicles, "CH-47 Chinook"},
	{models.AssetTypeAmmunition, "5.56mm NATO"},
	{models.AssetTypeAmmunition, "7.62mm NATO"},
	{models.AssetTypeAmmunition, "120mm APFSDS"},
	{models.AssetTypeEquipment, "Night Vision Goggles"},
	{models.AssetTypeEquipment, "Body Armor Vest"},
	{models.AssetTypeEquipment, "Radio Communication Set"},
}

var samplePersonnel = []string{
	"Alpha Company", "Bravo Company", "Charlie Squad", "Delta Team",
	"Sgt. Johnson", "Lt. Williams", "Cpl. Davis", "Pvt. Miller",
}

// Run wipes the database and loads the sample dataset. Development use
// only.
func Run(db *sql.DB, log *zap.Logger) error {
	goquDB := goqu.New("postgres", db)

	return repository.WithTransaction(goquDB, func(tx *goqu.TxDatabase) error {
		for _, table := range []string{"logs", "assignments", "transfers", "purchases", "stocks", "assets", "users", "bases"} {
			if _, err := tx.Delete(table).Executor().Exec(); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}

		log.Info("Creating bases")
		baseIDs := make([]int, 0, len(sampleBases))
		for _, b := range sampleBases {
			var id int
			query := tx.Insert("bases").
				Rows(goqu.Record{"name": b.Name, "location": b.Location}).
				Returning("id")
			if _, err := query.Executor().ScanVal(&id); err != nil {
				return fmt.Errorf("failed to insert base %s: %w", b.Name, err)
			}
			baseIDs = append(baseIDs, id)
		}

		log.Info("Creating assets")
		assetIDs := make([]int, 0, len(sampleAssets))
		for _, a := range sampleAssets {
			var id int
			query := tx.Insert("assets").
				Rows(goqu.Record{"type": a.Type, "description": a.Description}).
				Returning("id")
			if _, err := query.Executor().ScanVal(&id); err != nil {
				return fmt.Errorf("failed to insert asset %s: %w", a.Description, err)
			}
			assetIDs = append(assetIDs, id)
		}

		log.Info("Creating users")
		userIDs, err := seedUsers(tx, baseIDs)
		if err != nil {
			return err
		}

		log.Info("Creating stock records")
		if err := seedStocks(tx, baseIDs, assetIDs); err != nil {
			return err
		}

		log.Info("Creating sample movements")
		return seedMovements(tx, baseIDs, assetIDs, userIDs)
	})
}

func seedUsers(tx *goqu.TxDatabase, baseIDs []int) ([]int, error) {
	users := []struct {
		Name     string
		Email    string
		Password string
		Role     roles.Role
		BaseID   *int
	}{
		{"General John Smith", "admin@military.gov", "admin123", roles.Admin, nil},
		{"Colonel Mike Johnson", "commander@fortbragg.mil", "commander123", roles.Commander, &baseIDs[0]},
		{"Major Sarah Wilson", "logistics@pendleton.mil", "logistics123", roles.Logistics, &baseIDs[1]},
	}

	ids := make([]int, 0, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		var id int
		query := tx.Insert("users").
			Rows(goqu.Record{
				"name":          u.Name,
				"email":         u.Email,
				"password_hash": string(hash),
				"role":          u.Role.String(),
				"base_id":       u.BaseID,
			}).
			Returning("id")
		if _, err := query.Executor().ScanVal(&id); err != nil {
			return nil, fmt.Errorf("failed to insert user %s: %w", u.Email, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func seedStocks(tx *goqu.TxDatabase, baseIDs, assetIDs []int) error {
	rows := make([]interface{}, 0, len(baseIDs)*len(assetIDs))
	for _, baseID := range baseIDs {
		for _, assetID := range assetIDs {
			opening := rand.Intn(500) + 50
			rows = append(rows, goqu.Record{
				"base_id":         baseID,
				"asset_id":        assetID,
				"opening_balance": opening,
				"closing_balance": opening + rand.Intn(100) - 25,
				"assigned":        opening * 3 / 10,
				"expended":        opening / 10,
			})
		}
	}

	if _, err := tx.Insert("stocks").Rows(rows...).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert stock records: %w", err)
	}

	return nil
}

func seedMovements(tx *goqu.TxDatabase, baseIDs, assetIDs, userIDs []int) error {
	now := time.Now()

	for i := 0; i < 15; i++ {
		record := goqu.Record{
			"asset_id":      assetIDs[rand.Intn(len(assetIDs))],
			"base_id":       baseIDs[rand.Intn(len(baseIDs))],
			"quantity":      rand.Intn(50) + 5,
			"purchase_date": now.AddDate(0, 0, -rand.Intn(30)),
			"created_by":    userIDs[rand.Intn(len(userIDs))],
		}
		if _, err := tx.Insert("purchases").Rows(record).Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert sample purchase: %w", err)
		}
	}

	for i := 0; i < 10; i++ {
		from := baseIDs[rand.Intn(len(baseIDs))]
		to := baseIDs[rand.Intn(len(baseIDs))]
		for to == from {
			to = baseIDs[rand.Intn(len(baseIDs))]
		}

		status := models.TransferStatusCompleted
		if rand.Float64() < 0.3 {
			status = models.TransferStatusPending
		}

		record := goqu.Record{
			"asset_id":      assetIDs[rand.Intn(len(assetIDs))],
			"from_base_id":  from,
			"to_base_id":    to,
			"quantity":      rand.Intn(20) + 1,
			"transfer_date": now.AddDate(0, 0, -rand.Intn(20)),
			"initiated_by":  userIDs[rand.Intn(len(userIDs))],
			"status":        status,
		}
		if _, err := tx.Insert("transfers").Rows(record).Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert sample transfer: %w", err)
		}
	}

	for i := 0; i < 12; i++ {
		status := models.AssignmentStatusAssigned
		if rand.Float64() < 0.2 {
			status = models.AssignmentStatusExpended
		}

		record := goqu.Record{
			"asset_id":      assetIDs[rand.Intn(len(assetIDs))],
			"base_id":       baseIDs[rand.Intn(len(baseIDs))],
			"assigned_to":   samplePersonnel[rand.Intn(len(samplePersonnel))],
			"personnel_id":  fmt.Sprintf("USM%06d", rand.Intn(900000)+100000),
			"quantity":      rand.Intn(10) + 1,
			"assigned_date": now.AddDate(0, 0, -rand.Intn(15)),
			"status":        status,
			"reason":        "Operational deployment",
			"created_by":    userIDs[rand.Intn(len(userIDs))],
		}
		if _, err := tx.Insert("assignments").Rows(record).Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert sample assignment: %w", err)
		}
	}

	return nil
}
