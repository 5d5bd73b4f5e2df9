package email

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileEmailSender implements Sender by appending email content to a file.
// Useful as an audit trail alongside real delivery.
type FileEmailSender struct {
	filePath string
}

// NewFileEmailSender creates a FileEmailSender, ensuring the directory for
// the log file exists.
func NewFileEmailSender(filePath string) (Sender, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("email log file path cannot be empty")
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for email log file %q: %w", dir, err)
	}
	return &FileEmailSender{filePath: filePath}, nil
}

// Send appends the raw email message to the configured file.
func (s *FileEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	file, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("FileEmailSender: failed to open log file %q: %v", s.filePath, err)
		return fmt.Errorf("failed to open email log file: %w", err)
	}
	defer file.Close()

	entry := fmt.Sprintf("--- Email Logged at %s (To: %v, Subject: %s) ---\n",
		time.Now().Format(time.RFC3339Nano), to, subject)
	payload := append([]byte(entry), rawMessage...)
	payload = append(payload, []byte("--- End Logged Email ---\n\n")...)

	if _, err := file.Write(payload); err != nil {
		log.Printf("FileEmailSender: failed to write to log file %q: %v", s.filePath, err)
		return fmt.Errorf("failed to write email to log file: %w", err)
	}
	return nil
}
