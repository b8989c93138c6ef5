// Package refdata holds process-wide static reference tables. Nothing here
// has a lifecycle; consumers read, never write.
package refdata

type CountryCode struct {
	Country  string
	DialCode string
}

// CountryCodes is the country calling-code table offered by the contact
// forms for the country_code field.
var CountryCodes = []CountryCode{
	{Country: "United States", DialCode: "+1"},
	{Country: "Canada", DialCode: "+1"},
	{Country: "United Kingdom", DialCode: "+44"},
	{Country: "India", DialCode: "+91"},
	{Country: "Australia", DialCode: "+61"},
	{Country: "Germany", DialCode: "+49"},
	{Country: "France", DialCode: "+33"},
	{Country: "Italy", DialCode: "+39"},
	{Country: "Spain", DialCode: "+34"},
	{Country: "Netherlands", DialCode: "+31"},
	{Country: "Switzerland", DialCode: "+41"},
	{Country: "Sweden", DialCode: "+46"},
	{Country: "Norway", DialCode: "+47"},
	{Country: "Ireland", DialCode: "+353"},
	{Country: "Brazil", DialCode: "+55"},
	{Country: "Mexico", DialCode: "+52"},
	{Country: "Argentina", DialCode: "+54"},
	{Country: "Japan", DialCode: "+81"},
	{Country: "China", DialCode: "+86"},
	{Country: "South Korea", DialCode: "+82"},
	{Country: "Singapore", DialCode: "+65"},
	{Country: "Hong Kong", DialCode: "+852"},
	{Country: "United Arab Emirates", DialCode: "+971"},
	{Country: "Saudi Arabia", DialCode: "+966"},
	{Country: "South Africa", DialCode: "+27"},
	{Country: "Nigeria", DialCode: "+234"},
	{Country: "Kenya", DialCode: "+254"},
	{Country: "Egypt", DialCode: "+20"},
	{Country: "Russia", DialCode: "+7"},
	{Country: "Turkey", DialCode: "+90"},
	{Country: "Pakistan", DialCode: "+92"},
	{Country: "Bangladesh", DialCode: "+880"},
	{Country: "Indonesia", DialCode: "+62"},
	{Country: "Philippines", DialCode: "+63"},
	{Country: "New Zealand", DialCode: "+64"},
}

// ValidDialCode reports whether code appears in the table.
func ValidDialCode(code string) bool {
	for _, entry := range CountryCodes {
		if entry.DialCode == code {
			return true
		}
	}

	return false
}
