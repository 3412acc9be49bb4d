package plan

// Kind is the mutation an action requests.
type Kind string

const (
	Create Kind = "create"
	Update Kind = "update"
	Delete Kind = "delete"
)

// Target names the entity an action applies to, using the backend's wire names.
type Target string

const (
	TargetPlan       Target = "plan"
	TargetTimeTable  Target = "timeTable"
	TargetPlaceBlock Target = "timeTablePlaceBlock"
)

func (k Kind) Valid() bool {
	return k == Create || k == Update || k == Delete
}

func (t Target) Valid() bool {
	return t == TargetPlan || t == TargetTimeTable || t == TargetPlaceBlock
}

// Action is one proposed change to a plan. Payload is always a mapping, never nil.
type Action struct {
	Kind       Kind           `json:"action"`
	TargetName Target         `json:"targetName"`
	Payload    map[string]any `json:"target"`
}

func CreateBlock(b PlaceBlock) Action {
	return Action{Kind: Create, TargetName: TargetPlaceBlock, Payload: b.Payload()}
}

func CreateTimeTable(tt TimeTable) Action {
	return Action{Kind: Create, TargetName: TargetTimeTable, Payload: map[string]any{
		"date":        string(tt.Date),
		"timeTableId": tt.ID.Wire(),
	}}
}
