package domain

import "strings"

// ActionType - internal numeric identifier of an organism action
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionHunt
	ActionGraze
	ActionFindFood
	ActionCollectNectar
	ActionPollinate
	ActionDrink
	ActionRest
	ActionPatrol
	ActionHide
	ActionReproduce
)

// JSON/config name -> domain
var actionStringToCmd = map[string]ActionType{
	"HUNT":           ActionHunt,
	"GRAZE":          ActionGraze,
	"FIND_FOOD":      ActionFindFood,
	"COLLECT_NECTAR": ActionCollectNectar,
	"POLLINATE":      ActionPollinate,
	"DRINK":          ActionDrink,
	"REST":           ActionRest,
	"PATROL":         ActionPatrol,
	"HIDE":           ActionHide,
	"REPRODUCE":      ActionReproduce,
}

// domain -> name for logs and outcome records
var actionCmdToString = map[ActionType]string{
	ActionHunt:          "HUNT",
	ActionGraze:         "GRAZE",
	ActionFindFood:      "FIND_FOOD",
	ActionCollectNectar: "COLLECT_NECTAR",
	ActionPollinate:     "POLLINATE",
	ActionDrink:         "DRINK",
	ActionRest:          "REST",
	ActionPatrol:        "PATROL",
	ActionHide:          "HIDE",
	ActionReproduce:     "REPRODUCE",
}

// ParseAction converts a name into an ActionType, case-insensitively
func ParseAction(s string) ActionType {
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String implements fmt.Stringer
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// MarshalText lets action types appear by name in JSON and YAML.
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
