package entity

// Models lists every persisted entity in foreign-key order.
func Models() []interface{} {
	return []interface{}{
		&Patient{},
		&Checkup{},
		&Vitamin{},
		&Alert{},
		&Immunization{},
		&Milestone{},
	}
}
