package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// AnimalCommand manages registered animals.
func AnimalCommand() *cli.Command {
	return &cli.Command{
		Name:  "animal",
		Usage: "Manage registered animals",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register an animal for a farmer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Owner user id", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Animal name"},
					&cli.StringFlag{Name: "tag", Usage: "Tag number"},
					&cli.StringFlag{Name: "breed", Usage: "Breed"},
					&cli.Float64Flag{Name: "age", Usage: "Age in years"},
					&cli.Float64Flag{Name: "milk", Usage: "Daily milk yield in litres"},
					&cli.StringFlag{Name: "vaccinated", Usage: "Last vaccination date (YYYY-MM-DD)"},
				},
				Action: addAnimal,
			},
		},
	}
}

func addAnimal(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	animal := &domain.AnimalRecord{
		OwnerID:   c.String("owner"),
		Name:      c.String("name"),
		TagNumber: c.String("tag"),
		Breed:     c.String("breed"),
	}
	if c.IsSet("age") {
		age := c.Float64("age")
		animal.AgeYears = &age
	}
	if c.IsSet("milk") {
		milk := c.Float64("milk")
		animal.DailyMilkYield = &milk
	}
	if v := c.String("vaccinated"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid --vaccinated date: %w", err)
		}
		animal.LastVaccinationDate = &date
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateAnimal(c.Context, animal); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "registered animal %d for %s\n", animal.AnimalID, animal.OwnerID)
	return nil
}
