package models

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Names of the independently patchable settings sections.
const (
	SectionHero          = "hero"
	SectionAbout         = "about"
	SectionSectionTitles = "sectionTitles"
	SectionContact       = "contact"
	SectionSocial        = "social"
	SectionTheme         = "theme"
	SectionFooter        = "footer"
)

var SettingsSections = []string{
	SectionHero,
	SectionAbout,
	SectionSectionTitles,
	SectionContact,
	SectionSocial,
	SectionTheme,
	SectionFooter,
}

// IsSettingsSection reports whether name is a patchable section.
func IsSettingsSection(name string) bool {
	for _, s := range SettingsSections {
		if s == name {
			return true
		}
	}
	return false
}

const (
	ThemeModeDark  = "dark"
	ThemeModeLight = "light"
)

type HeroSection struct {
	Name        I18n     `json:"name"`
	Title       I18n     `json:"title"`
	Subtitle    I18n     `json:"subtitle"`
	TypingTexts I18nList `json:"typingTexts"`
}

type AboutSection struct {
	Title   I18n   `json:"title"`
	Content I18n   `json:"content"`
	Image   string `json:"image"`
}

type SectionTitles struct {
	Skills     I18n `json:"skills"`
	Projects   I18n `json:"projects"`
	Experience I18n `json:"experience"`
	Contact    I18n `json:"contact"`
}

type ContactSection struct {
	Title       I18n   `json:"title"`
	Description I18n   `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    I18n   `json:"location"`
}

func (c ContactSection) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, is.EmailFormat),
	)
}

type SocialLinks struct {
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Telegram  string `json:"telegram"`
	Instagram string `json:"instagram"`
}

type ThemeSettings struct {
	DefaultMode  string `json:"defaultMode"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
}

func (t ThemeSettings) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.DefaultMode,
			validation.Required,
			validation.In(ThemeModeDark, ThemeModeLight).Error("must be dark or light"),
		),
		validation.Field(&t.PrimaryColor, is.HexColor),
		validation.Field(&t.AccentColor, is.HexColor),
	)
}

type FooterSection struct {
	Text I18n `json:"text"`
}

// Settings is the site-wide singleton document.
type Settings struct {
	ID            uuid.UUID                          `json:"id" gorm:"type:uuid;primaryKey;not null"`
	SiteName      string                             `json:"siteName" gorm:"type:text;not null;default:''"`
	Hero          datatypes.JSONType[HeroSection]    `json:"hero" gorm:"not null"`
	About         datatypes.JSONType[AboutSection]   `json:"about" gorm:"not null"`
	SectionTitles datatypes.JSONType[SectionTitles]  `json:"sectionTitles" gorm:"not null"`
	Contact       datatypes.JSONType[ContactSection] `json:"contact" gorm:"not null"`
	Social        datatypes.JSONType[SocialLinks]    `json:"social" gorm:"not null"`
	Theme         datatypes.JSONType[ThemeSettings]  `json:"theme" gorm:"not null"`
	ResumeURL     string                             `json:"resumeUrl" gorm:"type:text;not null;default:''"`
	Footer        datatypes.JSONType[FooterSection]  `json:"footer" gorm:"not null"`
	CreatedAt     time.Time                          `json:"createdAt"`
	UpdatedAt     time.Time                          `json:"updatedAt"`
}

func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DefaultSettings returns the document used when none has been stored yet.
func DefaultSettings() *Settings {
	return &Settings{
		SiteName: "Portfolio",
		Hero: datatypes.NewJSONType(HeroSection{
			Name:        I18n{Uz: "Salom, men", En: "Hi, I'm", Ru: "Привет, я"},
			Title:       I18n{Uz: "Full-Stack Developer", En: "Full-Stack Developer", Ru: "Full-Stack Разработчик"},
			Subtitle:    I18n{Uz: "Zamonaviy veb-ilovalar yarataman", En: "I build modern web applications", Ru: "Создаю современные веб-приложения"},
			TypingTexts: I18nList{Uz: []string{}, En: []string{}, Ru: []string{}},
		}),
		About: datatypes.NewJSONType(AboutSection{
			Title: I18n{Uz: "Men haqimda", En: "About Me", Ru: "Обо мне"},
		}),
		SectionTitles: datatypes.NewJSONType(SectionTitles{
			Skills:     I18n{Uz: "Ko'nikmalar", En: "Skills", Ru: "Навыки"},
			Projects:   I18n{Uz: "Loyihalar", En: "Projects", Ru: "Проекты"},
			Experience: I18n{Uz: "Tajriba", En: "Experience", Ru: "Опыт"},
			Contact:    I18n{Uz: "Bog'lanish", En: "Contact", Ru: "Контакты"},
		}),
		Contact: datatypes.NewJSONType(ContactSection{
			Title:       I18n{Uz: "Bog'lanish", En: "Get in Touch", Ru: "Связаться"},
			Description: I18n{Uz: "Men bilan bog'laning", En: "Feel free to reach out", Ru: "Свяжитесь со мной"},
		}),
		Social: datatypes.NewJSONType(SocialLinks{}),
		Theme: datatypes.NewJSONType(ThemeSettings{
			DefaultMode:  ThemeModeDark,
			PrimaryColor: "#a855f7",
			AccentColor:  "#06b6d4",
		}),
		Footer: datatypes.NewJSONType(FooterSection{
			Text: I18n{Uz: "© 2024. Barcha huquqlar himoyalangan.", En: "© 2024. All rights reserved.", Ru: "© 2024. Все права защищены."},
		}),
	}
}

// Section returns the current value of a named section.
func (s *Settings) Section(name string) (any, error) {
	switch name {
	case SectionHero:
		return s.Hero.Data(), nil
	case SectionAbout:
		return s.About.Data(), nil
	case SectionSectionTitles:
		return s.SectionTitles.Data(), nil
	case SectionContact:
		return s.Contact.Data(), nil
	case SectionSocial:
		return s.Social.Data(), nil
	case SectionTheme:
		return s.Theme.Data(), nil
	case SectionFooter:
		return s.Footer.Data(), nil
	}
	return nil, fmt.Errorf("unknown settings section %q", name)
}

// SetSection decodes raw JSON into the named section, replacing it entirely.
// Unknown keys are ignored; a value of the wrong type is an error and leaves s unchanged.
func (s *Settings) SetSection(name string, raw json.RawMessage) error {
	switch name {
	case SectionHero:
		return setSection(&s.Hero, raw)
	case SectionAbout:
		return setSection(&s.About, raw)
	case SectionSectionTitles:
		return setSection(&s.SectionTitles, raw)
	case SectionContact:
		return setSection(&s.Contact, raw)
	case SectionSocial:
		return setSection(&s.Social, raw)
	case SectionTheme:
		return setSection(&s.Theme, raw)
	case SectionFooter:
		return setSection(&s.Footer, raw)
	}
	return fmt.Errorf("unknown settings section %q", name)
}

func setSection[T any](dst *datatypes.JSONType[T], raw json.RawMessage) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = datatypes.NewJSONType(v)
	return nil
}
