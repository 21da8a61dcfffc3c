package replyparse

// Action is a non-verbal gesture or sound the villager can perform.
type Action string

const (
	ActionShakeHead    Action = `SHAKE_HEAD`
	ActionSoundYes     Action = `SOUND_YES`
	ActionSoundNo      Action = `SOUND_NO`
	ActionSoundAmbient Action = `SOUND_AMBIENT`
)

var knownActions = map[string]Action{
	string(ActionShakeHead):    ActionShakeHead,
	string(ActionSoundYes):     ActionSoundYes,
	string(ActionSoundNo):      ActionSoundNo,
	string(ActionSoundAmbient): ActionSoundAmbient,
}
