package presence

import (
	"github.com/samber/do/v2"
	"github.com/voixlab/portier/internal/config"
	"github.com/voixlab/portier/internal/discord"
	"github.com/voixlab/portier/internal/rarity"
	"github.com/voixlab/portier/internal/repository"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*rarity.Selector, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return rarity.NewSelector(cfg), nil
	})
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[repository.Store](i)
		dc := do.MustInvoke[discord.Client](i)
		namer := do.MustInvoke[*rarity.Selector](i)
		return NewManager(cfg, store, dc, namer), nil
	})
}
