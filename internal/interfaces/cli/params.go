package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

type windowFlags struct {
	From string
	To   string
	Team string
	Game string
}

type window struct {
	Start  time.Time
	End    time.Time
	TeamID string
	GameID string
}

// resolve parses ET calendar dates. --to defaults to --from so a single day
// needs one flag.
func (f windowFlags) resolve() (window, error) {
	w := window{
		TeamID: strings.ToUpper(strings.TrimSpace(f.Team)),
		GameID: strings.TrimSpace(f.Game),
	}
	from := strings.TrimSpace(f.From)
	to := strings.TrimSpace(f.To)
	if from == "" && to == "" {
		return w, nil
	}
	if from == "" {
		return window{}, fmt.Errorf("%w: --from is required when --to is set", usecase.ErrInvalidInput)
	}
	if to == "" {
		to = from
	}

	start, err := game.ParseDate(from)
	if err != nil {
		return window{}, fmt.Errorf("%w: --from %q: %v", usecase.ErrInvalidInput, from, err)
	}
	end, err := game.ParseDate(to)
	if err != nil {
		return window{}, fmt.Errorf("%w: --to %q: %v", usecase.ErrInvalidInput, to, err)
	}
	w.Start, w.End = start, end
	return w, nil
}

type ingestParams struct {
	Provider  string `validate:"required"`
	Kind      string `validate:"required,oneof=games stats players"`
	File      string `validate:"required"`
	EntityKey string
}

type listParams struct {
	Kind   string `validate:"omitempty,oneof=reconcile link validate"`
	Limit  int    `validate:"gte=1,lte=500"`
	Offset int    `validate:"gte=0"`
}

type resolvePlayerParams struct {
	Provider string `validate:"required"`
	Ref      string `validate:"required"`
	Player   string `validate:"required"`
}

func (c *CLI) check(params any) error {
	if err := c.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
