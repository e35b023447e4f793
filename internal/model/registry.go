package model

// All lists every table owned by the application, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Airdrop{},
		&ChatMessage{},
		&ActivityLog{},
	}
}
