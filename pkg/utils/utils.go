package utils

import (
	"os"
	"time"
	_ "time/tzdata" // Moscow time without a system zoneinfo

	"github.com/hako/durafmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Russian)

const localizationUnits = "г:г,нед:нед,д:д,ч:ч,мин:мин,с:с,мс:мс,мкс:мкс"

var ageUnits = func() durafmt.Units {
	units, err := durafmt.DefaultUnitsCoder.Decode(localizationUnits)
	if err != nil {
		panic(err)
	}
	return units
}()

// FormatPrice renders a price the Russian way, "1 299,9 ₽"
func FormatPrice(price float64, currency string) string {
	s := printer.Sprint(number.Decimal(price, number.MaxFractionDigits(2)))
	if currency == "" {
		return s
	}

	return s + " " + currency
}

func FormatDate(t time.Time) string {
	if t.Unix() <= 0 {
		return ""
	}

	return t.In(getTz()).Format("2006-01-02 15:04:05")
}

// FormatAge returns a short human readable duration between t and now
func FormatAge(t, now time.Time) string {
	if t.Unix() <= 0 {
		return ""
	}

	d := now.Sub(t)
	if d < time.Minute {
		return "только что"
	}

	return durafmt.Parse(d.Truncate(time.Minute)).LimitFirstN(2).Format(ageUnits)
}

func getTz() *time.Location {
	tz, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		os.Stderr.WriteString("Failed to load timezone: " + err.Error())
		os.Exit(1)
	}
	return tz
}

func GetOkJSON() []byte {
	return []byte(`{"is_ok":true}`)
}
