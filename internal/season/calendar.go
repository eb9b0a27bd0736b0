package season

import "time"

// Theme keys, stable identifiers used by templates, metrics and locale overrides.
const (
	KeyChristmas   = "christmas"
	KeyNewYear     = "new-year"
	KeyValentines  = "valentines"
	KeySpring      = "spring"
	KeyHalloween   = "halloween"
	KeyBlackFriday = "black-friday"
	KeySummer      = "summer"
)

// DefaultRules returns the store calendar. December is checked first and
// covers the whole month; order matters for the day-bounded rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Key:   KeyChristmas,
			Match: func(d Date) bool { return d.Month == time.December },
			Theme: Theme{
				Key:  KeyChristmas,
				Name: "Winter holiday",
				Palette: Palette{
					Primary:   "#165834",
					Secondary: "#C41E3A",
					Accent:    "#FFD700",
				},
				Emoji:    "🎄",
				Banner:   "ESPECIAL NAVIDAD - Regalos perfectos con envío express 🎅",
				Gradient: "from-red-600 via-green-600 to-red-600",
			},
		},
		{
			Key:   KeyNewYear,
			Match: func(d Date) bool { return d.Month == time.January && d.Day <= 7 },
			Theme: Theme{
				Key:  KeyNewYear,
				Name: "New Year",
				Palette: Palette{
					Primary:   "#1e3a8a",
					Secondary: "#fbbf24",
					Accent:    "#fbbf24",
				},
				Emoji:    "🎉",
				Banner:   "FELIZ AÑO NUEVO - Empieza el año ahorrando hasta 60% 🥳",
				Gradient: "from-yellow-400 via-blue-500 to-purple-600",
			},
		},
		{
			Key:   KeyValentines,
			Match: func(d Date) bool { return d.Month == time.February && d.Day <= 14 },
			Theme: Theme{
				Key:  KeyValentines,
				Name: "Mid-winter romance",
				Palette: Palette{
					Primary:   "#be185d",
					Secondary: "#dc2626",
					Accent:    "#fda4af",
				},
				Emoji:    "💝",
				Banner:   "SAN VALENTÍN - Regalos con amor y descuentos especiales 💕",
				Gradient: "from-pink-500 via-red-500 to-pink-500",
			},
		},
		{
			Key: KeySpring,
			Match: func(d Date) bool {
				return (d.Month == time.March && d.Day >= 20) || d.Month == time.April || d.Month == time.May
			},
			Theme: Theme{
				Key:  KeySpring,
				Name: "Spring",
				Palette: Palette{
					Primary:   "#16a34a",
					Secondary: "#f59e0b",
					Accent:    "#ec4899",
				},
				Emoji:    "🌸",
				Banner:   "PRIMAVERA EN FLOR - Renueva tu estilo con ofertas frescas 🌷",
				Gradient: "from-green-400 via-yellow-400 to-pink-400",
			},
		},
		{
			Key:   KeyHalloween,
			Match: func(d Date) bool { return d.Month == time.October },
			Theme: Theme{
				Key:  KeyHalloween,
				Name: "Autumn/spooky",
				Palette: Palette{
					Primary:   "#f97316",
					Secondary: "#7c3aed",
					Accent:    "#000000",
				},
				Emoji:    "🎃",
				Banner:   "HALLOWEEN SPOOKY SALE - Ofertas de miedo hasta 50% OFF 👻",
				Gradient: "from-orange-600 via-purple-600 to-black",
			},
		},
		{
			Key:   KeyBlackFriday,
			Match: func(d Date) bool { return d.Month == time.November && d.Day >= 15 },
			Theme: Theme{
				Key:  KeyBlackFriday,
				Name: "Year-end mega-sale",
				Palette: Palette{
					Primary:   "#000000",
					Secondary: "#ff0000",
					Accent:    "#fbbf24",
				},
				Emoji:    "🛍️",
				Banner:   "BLACK FRIDAY - MEGA DESCUENTOS hasta 70% OFF 🔥",
				Gradient: "from-black via-red-600 to-black",
			},
		},
		{
			Key:   KeySummer,
			Match: func(d Date) bool { return d.Month >= time.June && d.Month <= time.August },
			Theme: Theme{
				Key:  KeySummer,
				Name: "Summer",
				Palette: Palette{
					Primary:   "#0ea5e9",
					Secondary: "#f59e0b",
					Accent:    "#06b6d4",
				},
				Emoji:    "☀️",
				Banner:   "VERANO CALIENTE - Ofertas refrescantes y envío gratis 🏖️",
				Gradient: "from-sky-400 via-yellow-400 to-cyan-400",
			},
		},
	}
}
