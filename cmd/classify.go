package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/internal/animalctx"
)

// ClassifyCommand runs the intake classifiers and policy over one message
// without calling the model or storing anything.
func ClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Show the decision the assistant would take for a message",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "Message text",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "context",
				Usage: "Animal context as a JSON object",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Owner id used to enrich a saved animal_id",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := newService(c.Context, cfg, store)
			if err != nil {
				return err
			}

			userID := c.String("user")
			animalCtx := animalctx.NormaliseJSON(json.RawMessage(c.String("context")))
			animalCtx = animalctx.NewEnricher(store).Augment(c.Context, userID, animalCtx)

			signals, decision, err := svc.Decide(c.Context, userID, c.String("message"), animalCtx)
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"decision":      decision,
				"greeting":      signals.Greeting,
				"refusal":       signals.Refusal,
				"has_context":   signals.HasContext,
				"keyword_hit":   signals.KeywordHit,
				"semantic_pass": signals.SemanticPass,
				"context":       animalCtx.ToMap(),
			}
			if signals.SemanticScore != 0 {
				out["semantic_score"] = signals.SemanticScore
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
			return nil
		},
	}
}
