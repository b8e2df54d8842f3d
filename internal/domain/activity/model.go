package activity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Action string

const (
	ActionAccountCreated               Action = "account_created"
	ActionExpenseCreated               Action = "expense_created"
	ActionExpenseUpdated               Action = "expense_updated"
	ActionExpenseDeleted               Action = "expense_deleted"
	ActionMemberInvited                Action = "member_invited"
	ActionMemberJoined                 Action = "member_joined"
	ActionMemberRemoved                Action = "member_removed"
	ActionPermissionGranted            Action = "permission_granted"
	ActionPermissionRevoked            Action = "permission_revoked"
	ActionOwnershipTransferInitiated   Action = "ownership_transfer_initiated"
	ActionOwnershipTransferred         Action = "ownership_transferred"
	ActionOwnershipCorrectionRequested Action = "ownership_correction_requested"
	ActionWeekCreated                  Action = "week_created"
	ActionWeekLocked                   Action = "week_locked"
	ActionBankAccountAdded             Action = "bank_account_added"
	ActionBankAccountRemoved           Action = "bank_account_removed"
	ActionAccountSettingsChanged       Action = "account_settings_changed"
)

// Metadata is a free-form jsonb payload attached to an entry.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(Metadata{})
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*m = Metadata{}
		return nil
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}
	return json.Unmarshal(raw, m)
}

func (Metadata) GormDataType() string {
	return "jsonb"
}

// Entry is one audit record. ActorDisplayName is a snapshot taken at write
// time so history stays stable after renames or removals.
type Entry struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID         string    `gorm:"type:uuid;index:idx_activity_account_created;not null" json:"account_id"`
	ActorUserID       string    `gorm:"type:uuid;not null" json:"actor_user_id"`
	ActorDisplayName  string    `gorm:"not null" json:"actor_display_name"`
	Action            Action    `gorm:"type:varchar(48);not null" json:"action"`
	TargetDescription string    `json:"target_description"`
	Metadata          Metadata  `json:"metadata"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index:idx_activity_account_created,sort:desc" json:"created_at"`
}

func (Entry) TableName() string {
	return "activity_log"
}
