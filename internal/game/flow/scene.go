package flow

// Scene is one stage of the game loop.
type Scene uint8

const (
	SceneHome Scene = iota
	SceneAdventure
	SceneBoss
)

// String returns the scene name used in logs, snapshots and persistence.
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "home"
	case SceneAdventure:
		return "adventure"
	case SceneBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Next returns the scene that follows s: Home → Adventure → Boss → Home.
func (s Scene) Next() Scene {
	switch s {
	case SceneHome:
		return SceneAdventure
	case SceneAdventure:
		return SceneBoss
	default:
		return SceneHome
	}
}
