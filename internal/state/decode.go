package state

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire form of an action: {"type": "...", "payload": {...}}
type Envelope struct {
	Type    ActionType      `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

type decoder func(json.RawMessage) (Action, error)

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var a T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

var decoders = map[ActionType]decoder{
	TypeSetView:                   decodeAs[SetView],
	TypeSetInboxSubView:           decodeAs[SetInboxSubView],
	TypeSetSelectedItem:           decodeAs[SetSelectedItem],
	TypeSetBulkSelectedIDs:        decodeAs[SetBulkSelectedIDs],
	TypeSetCurrentUser:            decodeAs[SetCurrentUser],
	TypeSetFilterStatus:           decodeAs[SetFilterStatus],
	TypeSetFilterTag:              decodeAs[SetFilterTag],
	TypeSetSearchTerm:             decodeAs[SetSearchTerm],
	TypeReceiveEmail:              decodeAs[ReceiveEmail],
	TypeUpdateEmailStatus:         decodeAs[UpdateEmailStatus],
	TypeBulkUpdateEmailStatus:     decodeAs[BulkUpdateEmailStatus],
	TypeUpdateEmailAnalysis:       decodeAs[UpdateEmailAnalysis],
	TypeSaveDraft:                 decodeAs[SaveDraft],
	TypeDeleteDraft:               decodeAs[DeleteDraft],
	TypeSendEmail:                 decodeAs[SendEmail],
	TypeSendPersonalizedBulkEmail: decodeAs[SendPersonalizedBulkEmail],
	TypeAddTask:                   decodeAs[AddTask],
	TypeUpdateTaskStatus:          decodeAs[UpdateTaskStatus],
	TypeUpdateTask:                decodeAs[UpdateTask],
	TypeDeleteTask:                decodeAs[DeleteTask],
	TypeAddContact:                decodeAs[AddContact],
	TypeAddMailingList:            decodeAs[AddMailingList],
	TypeImportContacts:            decodeAs[ImportContacts],
	TypeAddTemplate:               decodeAs[AddTemplate],
	TypeUpdateTemplate:            decodeAs[UpdateTemplate],
	TypeDeleteTemplate:            decodeAs[DeleteTemplate],
	TypeAddNotification:           decodeAs[AddNotification],
	TypeRemoveNotification:        decodeAs[RemoveNotification],
	TypeAISearchStart:             decodeAs[AISearchStart],
	TypeAISearchSuccess:           decodeAs[AISearchSuccess],
	TypeAISearchClear:             decodeAs[AISearchClear],
	TypeUpdateAppSettings:         decodeAs[UpdateAppSettings],
}

// Decode turns an envelope into an Action. Tags this build does not know
// decode to Unknown rather than failing.
func Decode(env Envelope) (Action, error) {
	dec, ok := decoders[env.Type]
	if !ok {
		return Unknown{Tag: env.Type}, nil
	}
	a, err := dec(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return a, nil
}

// Encode wraps a in an envelope
func Encode(a Action) (Envelope, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: a.Type(), Payload: payload}, nil
}
