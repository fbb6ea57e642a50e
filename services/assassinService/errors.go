package assassinService

// GameError is a user-correctable game or validation failure. Every GameError
// is reported inline to the acting user and never leaves partial state behind.
type GameError string

func (e GameError) Error() string {
	return string(e)
}

const (
	ErrInvalidName         GameError = "invalid name: provide your full name using only letters and spaces"
	ErrInvalidEmail        GameError = "invalid email: a Texas A&M address ending in @tamu.edu is required"
	ErrInvalidPhotoURL     GameError = "the photo URL does not resolve to a valid image"
	ErrAlreadyRegistered   GameError = "you have already registered"
	ErrEmailTaken          GameError = "that email address is already registered"
	ErrNotRegistered       GameError = "you are not a registered player; use /register first"
	ErrAlreadyInLobby      GameError = "you have already joined the game"
	ErrNotInLobby          GameError = "you are not in the current game"
	ErrGameStarted         GameError = "the game has already started"
	ErrGameNotStarted      GameError = "the game has not started yet"
	ErrNoChannelConfigured GameError = "the assassins channel has not been set for this server"
	ErrPlayerNotFound      GameError = "player not found"
)
