package queue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	kioskID := uuid.New()

	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{
			name: "room selection",
			req:  &Request{RequestID: "r1", Type: RequestTypeRoomSelection, KioskID: kioskID, Message: "Vous avez sélectionné Salle 2."},
		},
		{
			name: "guidance",
			req:  &Request{RequestID: "r1", Type: RequestTypeGuidance, KioskID: kioskID, Guidance: "Bureau 101"},
		},
		{
			name:    "room selection without message",
			req:     &Request{RequestID: "r1", Type: RequestTypeRoomSelection, KioskID: kioskID},
			wantErr: true,
		},
		{
			name:    "guidance without text",
			req:     &Request{RequestID: "r1", Type: RequestTypeGuidance, KioskID: kioskID},
			wantErr: true,
		},
		{
			name:    "missing kiosk",
			req:     &Request{RequestID: "r1", Type: RequestTypeGuidance, Guidance: "Bureau 101"},
			wantErr: true,
		},
		{
			name:    "missing id",
			req:     &Request{Type: RequestTypeGuidance, KioskID: kioskID, Guidance: "Bureau 101"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			req:     &Request{RequestID: "r1", Type: "chat", KioskID: kioskID},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_JSONKeepsKioskID(t *testing.T) {
	req := NewRequest(RequestTypeRoomSelection, uuid.New())
	req.RoomID = "b301"
	req.Message = "Vous avez sélectionné Bureau 301. Suivez le chemin rouge."

	data, err := req.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kiosk_id":"`+req.KioskID.String()+`"`)

	got, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, req.KioskID, got.KioskID)
	assert.Equal(t, req.RoomID, got.RoomID)
	assert.Equal(t, req.Message, got.Message)
}

func TestFromJSON_BadKioskID(t *testing.T) {
	_, err := FromJSON([]byte(`{"request_id":"r1","type":"guidance","kiosk_id":"nope"}`))
	assert.Error(t, err)
}
