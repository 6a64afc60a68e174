package models

import "github.com/outdecked/outdecked/outdecked/database/repositories"

// Repositories aggregates the data access layer handed to the web app.
type Repositories struct {
	Cards  repositories.CardRepository
	Groups repositories.GroupRepository
	Decks  repositories.DeckRepository
	Users  repositories.UserRepository
}
