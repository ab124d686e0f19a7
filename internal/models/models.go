package models

// All returns one value of every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&JobApplication{},
		&ContactSubmission{},
		&Blog{},
		&BlogEditLog{},
		&AdminUser{},
		&SiteVisit{},
	}
}
