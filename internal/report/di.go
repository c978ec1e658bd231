package report

import (
	"github.com/samber/do/v2"
	"github.com/voixlab/portier/internal/config"
	"github.com/voixlab/portier/internal/discord"
	"github.com/voixlab/portier/internal/repository"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Reporter, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[repository.Store](i)
		dc := do.MustInvoke[discord.Client](i)
		return NewReporter(cfg, store, dc), nil
	})
}
