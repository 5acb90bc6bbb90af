package mail

import "time"

type LeadsExportEmailData struct {
	Count       int
	FileName    string
	GeneratedAt string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Now      func() time.Time
}
