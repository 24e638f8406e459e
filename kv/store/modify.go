package store

// ModifyType is the smallest unit of mutation of the committed store.
type ModifyType int64

const (
	ModifyTypePut    ModifyType = 1
	ModifyTypeDelete ModifyType = 2
)

type Put struct {
	Key   string
	Value string
}

type Delete struct {
	Key string
}

// Modify is one resolved write in a commit batch: either a Put or a Delete.
type Modify struct {
	Type ModifyType
	Data interface{}
}
