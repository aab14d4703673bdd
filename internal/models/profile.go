package models

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"
)

type ProfileStatus string

const (
	StatusNew              ProfileStatus = "New"
	StatusConsidering      ProfileStatus = "Considering"
	StatusFamilyContacted  ProfileStatus = "Family Contacted"
	StatusMeetingScheduled ProfileStatus = "Meeting Scheduled"
	StatusShortlisted      ProfileStatus = "Shortlisted"
	StatusRejected         ProfileStatus = "Rejected"
)

// ProfileStatuses is the fixed, ordered status set.
var ProfileStatuses = []ProfileStatus{
	StatusNew,
	StatusConsidering,
	StatusFamilyContacted,
	StatusMeetingScheduled,
	StatusShortlisted,
	StatusRejected,
}

func (s ProfileStatus) Valid() bool {
	for _, status := range ProfileStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Profile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	FirstName   string   `json:"first_name" gorm:"not null"`
	LastName    string   `json:"last_name" gorm:"not null"`
	DateOfBirth Date     `json:"date_of_birth" gorm:"not null"`
	HeightCm    *int     `json:"height_cm"`
	City        string   `json:"city" gorm:"not null"`
	District    string   `json:"district"`
	Caste       string   `json:"caste"`
	Subcaste    string   `json:"subcaste"`
	Phone       string   `json:"phone"`
	Linkedin    string   `json:"linkedin"`
	Instagram   string   `json:"instagram"`
	AvatarColor string   `json:"avatar_color"`
	Package     *float64 `json:"package" gorm:"type:numeric(10,2)"`

	EduLevel        string `json:"edu_level"`
	EduField        string `json:"edu_field"`
	EduInstitution  string `json:"edu_institution"`
	ProfessionTitle string `json:"profession_title"`
	Company         string `json:"company"`
	CompanyLocation string `json:"company_location"`

	FathersName       string `json:"fathers_name"`
	FathersOccupation string `json:"fathers_occupation"`
	MothersName       string `json:"mothers_name"`
	MothersOccupation string `json:"mothers_occupation"`
	Siblings          string `json:"siblings"`

	Rashi     string `json:"rashi"`
	Nakshatra string `json:"nakshatra"`
	Gotra     string `json:"gotra"`

	Status      ProfileStatus `json:"status" gorm:"not null;default:'New'"`
	Starred     bool          `json:"starred" gorm:"not null;default:false"`
	Notes       string        `json:"notes" gorm:"type:text"`
	Source      string        `json:"source"`
	AddedBy     string        `json:"added_by"`
	AddedDate   *Date         `json:"added_date"`
	MeetingDate *Date         `json:"meeting_date"`

	Photos    []Photo   `json:"-" gorm:"foreignKey:ProfileID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age is floor(days since birth / 365.25), not a calendar age.
func (p *Profile) Age(now time.Time) int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	days := Today(now).Sub(p.DateOfBirth.Time).Hours() / 24
	return int(math.Floor(days / 365.25))
}

// ProfileFields is the writable field set. A nil pointer or an unset
// Optional means "not sent"; on create those stay at their zero value, on
// update they are left untouched. A null sent for a text field clears it to
// "", and a null for a nullable column stores NULL.
type ProfileFields struct {
	FirstName   *string           `json:"first_name"`
	LastName    *string           `json:"last_name"`
	DateOfBirth DateInput         `json:"date_of_birth"`
	HeightCm    Optional[int]     `json:"height_cm"`
	City        *string           `json:"city"`
	District    *string           `json:"district"`
	Caste       *string           `json:"caste"`
	Subcaste    *string           `json:"subcaste"`
	Phone       *string           `json:"phone"`
	Linkedin    *string           `json:"linkedin"`
	Instagram   *string           `json:"instagram"`
	AvatarColor *string           `json:"avatar_color"`
	Package     Optional[float64] `json:"package"`

	EduLevel        *string `json:"edu_level"`
	EduField        *string `json:"edu_field"`
	EduInstitution  *string `json:"edu_institution"`
	ProfessionTitle *string `json:"profession_title"`
	Company         *string `json:"company"`
	CompanyLocation *string `json:"company_location"`

	FathersName       *string     `json:"fathers_name"`
	FathersOccupation *string     `json:"fathers_occupation"`
	MothersName       *string     `json:"mothers_name"`
	MothersOccupation *string     `json:"mothers_occupation"`
	Siblings          *FlexString `json:"siblings"`

	Rashi     *string `json:"rashi"`
	Nakshatra *string `json:"nakshatra"`
	Gotra     *string `json:"gotra"`

	Status      *ProfileStatus `json:"status"`
	Starred     *bool          `json:"starred"`
	Notes       *string        `json:"notes"`
	Source      *string        `json:"source"`
	AddedDate   DateInput      `json:"added_date"`
	MeetingDate DateInput      `json:"meeting_date"`
}

func (f *ProfileFields) UnmarshalJSON(b []byte) error {
	type plain ProfileFields
	var decoded plain
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}

	// encoding/json leaves a pointer nil for null; mark text fields that
	// were sent as null so Apply clears them.
	v := reflect.ValueOf(&decoded).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() != reflect.Pointer || field.Type().Elem().Kind() != reflect.String {
			continue
		}
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if raw, ok := keys[name]; ok && isNull(raw) {
			field.Set(reflect.New(field.Type().Elem()))
		}
	}

	*f = ProfileFields(decoded)
	return nil
}

// InvalidFields names the sent fields whose values could not be parsed.
func (f *ProfileFields) InvalidFields() []string {
	var names []string
	if f.DateOfBirth.Invalid {
		names = append(names, "Date of birth")
	}
	if f.AddedDate.Invalid {
		names = append(names, "Added date")
	}
	if f.MeetingDate.Invalid {
		names = append(names, "Meeting date")
	}
	return names
}

// Apply copies every sent field onto p. Ownership and provenance
// (user_id, added_by) are not part of ProfileFields and never change here.
func (f *ProfileFields) Apply(p *Profile) {
	setString(&p.FirstName, f.FirstName)
	setString(&p.LastName, f.LastName)
	f.DateOfBirth.apply(&p.DateOfBirth)
	f.HeightCm.apply(&p.HeightCm)
	setString(&p.City, f.City)
	setString(&p.District, f.District)
	setString(&p.Caste, f.Caste)
	setString(&p.Subcaste, f.Subcaste)
	setString(&p.Phone, f.Phone)
	setString(&p.Linkedin, f.Linkedin)
	setString(&p.Instagram, f.Instagram)
	setString(&p.AvatarColor, f.AvatarColor)
	f.Package.apply(&p.Package)

	setString(&p.EduLevel, f.EduLevel)
	setString(&p.EduField, f.EduField)
	setString(&p.EduInstitution, f.EduInstitution)
	setString(&p.ProfessionTitle, f.ProfessionTitle)
	setString(&p.Company, f.Company)
	setString(&p.CompanyLocation, f.CompanyLocation)

	setString(&p.FathersName, f.FathersName)
	setString(&p.FathersOccupation, f.FathersOccupation)
	setString(&p.MothersName, f.MothersName)
	setString(&p.MothersOccupation, f.MothersOccupation)
	if f.Siblings != nil {
		p.Siblings = string(*f.Siblings)
	}

	setString(&p.Rashi, f.Rashi)
	setString(&p.Nakshatra, f.Nakshatra)
	setString(&p.Gotra, f.Gotra)

	if f.Status != nil {
		p.Status = *f.Status
	}
	if f.Starred != nil {
		p.Starred = *f.Starred
	}
	setString(&p.Notes, f.Notes)
	setString(&p.Source, f.Source)
	f.AddedDate.applyPtr(&p.AddedDate)
	f.MeetingDate.applyPtr(&p.MeetingDate)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

type OwnerResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ProfileResponse struct {
	*Profile
	Age       int             `json:"age"`
	Photos    []PhotoResponse `json:"photos"`
	OwnerName string          `json:"owner_name"`
	Owner     *OwnerResponse  `json:"owner,omitempty"`
}
