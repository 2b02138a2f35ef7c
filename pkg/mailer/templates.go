package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const credentialsSubject = "Your Admission is Approved - Portal Credentials"

const allocationSubject = "Hostel Room Allocated"

var credentialsTemplate = template.Must(template.New("credentials").Parse(`<div style="font-family:Arial,sans-serif;font-size:14px;color:#111">
<p>Dear {{.FirstName}},</p>
<p>Your admission has been approved. You can now log in to the student portal:</p>
<ul>
<li><b>Portal</b>: {{.PortalURL}}</li>
<li><b>Student ID</b>: {{.StudentID}}</li>
<li><b>Email</b>: {{.Email}}</li>
<li><b>Temporary Password</b>: <code>{{.Password}}</code></li>
</ul>
<p>Please change your password after first login.</p>
<p>Regards,<br/>Admissions Office</p>
</div>`))

var allocationTemplate = template.Must(template.New("allocation").Parse(`<div style="font-family:Arial,sans-serif;font-size:14px;color:#111">
<p>Dear {{.FirstName}},</p>
<p>You have been allocated a hostel room.</p>
<ul>
<li><b>Room</b>: {{.RoomNumber}} ({{.RoomType}})</li>
<li><b>Block</b>: {{.Block}}{{if .Floor}}, floor {{.Floor}}{{end}}</li>
<li><b>Monthly rent</b>: {{.MonthlyRent}}</li>
<li><b>Check-in</b>: {{.CheckIn}}</li>
</ul>
<p>Regards,<br/>Hostel Office</p>
</div>`))

// CredentialsData fills the approval credentials email.
type CredentialsData struct {
	FirstName string
	Email     string
	StudentID string
	Password  string
	PortalURL string
}

// AllocationData fills the hostel allocation email.
type AllocationData struct {
	FirstName   string
	RoomNumber  string
	RoomType    string
	Block       string
	Floor       string
	MonthlyRent string
	CheckIn     string
}

// CredentialsMessage renders the portal credentials email for to.
func CredentialsMessage(to string, data CredentialsData) (Message, error) {
	if data.FirstName == "" {
		data.FirstName = "Student"
	}
	body, err := render(credentialsTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: credentialsSubject, HTML: body}, nil
}

// AllocationMessage renders the hostel allocation email for to.
func AllocationMessage(to string, data AllocationData) (Message, error) {
	if data.FirstName == "" {
		data.FirstName = "Student"
	}
	body, err := render(allocationTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: allocationSubject, HTML: body}, nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
