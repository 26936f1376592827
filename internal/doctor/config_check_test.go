package doctor

import (
	"errors"
	"testing"
)

func TestConfigFileCheck_Run(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus Severity
		wantMsg    string
	}{
		{"defaults", "", nil, SeverityInfo, "no config file; using defaults"},
		{"loaded", "/etc/orcabackup/config.yaml", nil, SeverityPass, "loaded /etc/orcabackup/config.yaml"},
		{"broken", "/x/config.yaml", errors.New("validating config: bad"), SeverityError, "validating config: bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewConfigFileCheck(tt.path, tt.err).Run()
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", result.Status, tt.wantStatus)
			}
			if result.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", result.Message, tt.wantMsg)
			}
			if (tt.err != nil) != (result.FixHint != "") {
				t.Errorf("FixHint = %q", result.FixHint)
			}
		})
	}
}
