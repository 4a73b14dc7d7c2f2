package models

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Article{},
		&ArticleTag{},
		&ArticleLike{},
		&Comment{},
		&Message{},
		&Project{},
		&ProjectTechnology{},
		&Skill{},
		&Experience{},
		&Settings{},
	}
}
