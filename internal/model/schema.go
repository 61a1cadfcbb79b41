package model

// AllModels 需要迁移的表，被引用的表在前
func AllModels() []interface{} {
	return []interface{}{
		&Team{},
		&Venue{},
		&VenueAlias{},
		&Person{},
		&Match{},
		&MatchPlayer{},
		&DeliveryRow{},
		&BacklogEntry{},
		&IngestRun{},
	}
}
