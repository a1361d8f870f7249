package sources

import (
	"EconPull/internal/domain/repository"
)

// All returns the full generator set in catalogue order.
func All(fed *Fed) []repository.Generator {
	return []repository.Generator{
		fed,
		NewECB(),
		NewBoE(),
		NewBoC(),
		NewRBA(),
		NewRBNZ(),
		NewBLS(),
		NewCensus(),
		NewTreasury(),
		NewISM(),
		NewUMich(),
		NewNAR(),
	}
}

// Scheduled returns the generators that never touch the network.
func Scheduled() []repository.Generator {
	return All(nil)[1:]
}
