package main

import "github.com/Almyria/VillagerGPT/internal/world"

// demoWorld is the fixed world snapshot the harness runs against.
type demoWorld struct {
	positions map[world.EntityID]world.Position
}

var _ world.Context = (*demoWorld)(nil)

func newDemoWorld() *demoWorld {
	return &demoWorld{
		positions: map[world.EntityID]world.Position{
			`villager-5f1c`: {X: 100, Y: 64, Z: -40},
			`player-1`:      {X: 104, Y: 64, Z: -38},
		},
	}
}

func (d *demoWorld) TimeOfDay(world.WorldID) world.DayPhase {
	return world.Day
}

func (d *demoWorld) IsStorming(world.WorldID) bool {
	return false
}

func (d *demoWorld) BiomeAt(world.WorldID, world.Position) string {
	return `plains`
}

func (d *demoWorld) ReputationScore(world.EntityID, world.EntityID) int {
	return 25
}

func (d *demoWorld) WorldOf(world.EntityID) world.WorldID {
	return `overworld`
}

func (d *demoWorld) LocationOf(entity world.EntityID) world.Position {
	return d.positions[entity]
}
