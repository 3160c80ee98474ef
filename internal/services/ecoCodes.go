package services

// staticEcoEntries is the built-in opening table, in lookup order.
var staticEcoEntries = []EcoEntry{
	// A-series: Flank Openings
	{Code: "A00", Description: "Irregular Openings (including Polish Opening, Sokolsky Opening)"},
	{Code: "A01", Description: "Nimzovich-Larsen Attack"},
	{Code: "A02", Description: "Bird's Opening (1.f4)"},
	{Code: "A03", Description: "Bird's Opening, 1...d5"},
	{Code: "A04", Description: "Reti Opening"},
	{Code: "A05", Description: "Reti Opening, King's Indian Attack"},
	{Code: "A06", Description: "Reti Opening, 1...d5"},
	{Code: "A07", Description: "Reti Opening, King's Indian Attack (Barcza System)"},
	{Code: "A08", Description: "Reti Opening, King's Indian Attack"},
	{Code: "A09", Description: "Reti Opening, Advance Variation"},
	{Code: "A10", Description: "English Opening"},
	{Code: "A11", Description: "English Opening, Caro-Kann Defensive System"},
	{Code: "A12", Description: "English Opening, Caro-Kann Defensive System"},
	{Code: "A13", Description: "English Opening, Agincourt Defense"},
	{Code: "A14", Description: "English Opening, Neo-Catalan Declined"},
	{Code: "A15", Description: "English Opening, Anglo-Indian Defense"},
	{Code: "A20", Description: "English Opening, King's English Variation"},
	{Code: "A30", Description: "English Opening, Symmetrical Variation"},
	{Code: "A40", Description: "Queen's Pawn Opening (1.d4 with various defenses)"},
	{Code: "A41", Description: "Queen's Pawn Opening (various Black defenses)"},
	{Code: "A43", Description: "Old Benoni Defense"},
	{Code: "A45", Description: "Queen's Pawn Game"},
	{Code: "A46", Description: "Queen's Pawn Game, Torre Attack"},
	{Code: "A48", Description: "King's Indian, East Indian Defense"},
	{Code: "A50", Description: "Queen's Pawn Game, Black Knights' Tango"},
	{Code: "A51", Description: "Budapest Gambit Declined"},
	{Code: "A56", Description: "Benoni Defense"},
	{Code: "A57", Description: "Benko Gambit"},
	{Code: "A60", Description: "Benoni Defense, Modern Variation"},
	{Code: "A80", Description: "Dutch Defense"},

	// B-series: Semi-Open Games
	{Code: "B00", Description: "Uncommon King's Pawn Opening"},
	{Code: "B01", Description: "Scandinavian Defense"},
	{Code: "B02", Description: "Alekhine's Defense"},
	{Code: "B06", Description: "Robatsch (Modern) Defense"},
	{Code: "B07", Description: "Pirc Defense"},
	{Code: "B10", Description: "Caro-Kann Defense"},
	{Code: "B12", Description: "Caro-Kann Defense"},
	{Code: "B13", Description: "Caro-Kann, Exchange Variation"},
	{Code: "B20", Description: "Sicilian Defense"},
	{Code: "B21", Description: "Sicilian, Grand Prix Attack"},
	{Code: "B22", Description: "Sicilian, Alapin Variation (2.c3)"},
	{Code: "B23", Description: "Sicilian, Closed"},
	{Code: "B27", Description: "Sicilian Defense, Various"},
	{Code: "B29", Description: "Sicilian, Nimzovich-Rubinstein Variation"},
	{Code: "B30", Description: "Sicilian Defense, Old Sicilian"},
	{Code: "B40", Description: "Sicilian Defense"},

	// C-series: Open Games and Queen's Pawn Games
	{Code: "C00", Description: "French Defense"},
	{Code: "C01", Description: "French, Exchange Variation"},
	{Code: "C02", Description: "French, Advance Variation"},
	{Code: "C10", Description: "French, Paulsen Variation"},
	{Code: "C20", Description: "King's Pawn Game"},
	{Code: "C30", Description: "King's Gambit"},
	{Code: "C40", Description: "King's Knight Opening"},
	{Code: "C41", Description: "Philidor Defense"},
	{Code: "C42", Description: "Petrov's Defense"},
	{Code: "C44", Description: "King's Pawn Game"},
	{Code: "C45", Description: "Scotch Game"},
	{Code: "C46", Description: "Three Knights Opening"},
	{Code: "C50", Description: "Giuoco Piano"},
	{Code: "C55", Description: "Two Knights Defense"},
	{Code: "C60", Description: "Ruy Lopez (Spanish Opening)"},
	{Code: "C65", Description: "Ruy Lopez, Berlin Defense"},
	{Code: "C68", Description: "Ruy Lopez, Exchange Variation"},
	{Code: "C70", Description: "Ruy Lopez"},

	// D-series: Closed Games and Indian Defenses
	{Code: "D00", Description: "Queen's Pawn Game, Mason Variation"},
	{Code: "D01", Description: "Richter-Veresov Attack"},
	{Code: "D02", Description: "Queen's Pawn Game, 2.Nf3"},
	{Code: "D05", Description: "Queen's Pawn Game, Colle System (Zukertort Variation)"},
	{Code: "D06", Description: "Queen's Gambit Declined"},
	{Code: "D07", Description: "Queen's Gambit Declined, Chigorin Defense"},
	{Code: "D10", Description: "Queen's Gambit Declined Slav Defense"},
	{Code: "D11", Description: "Queen's Gambit Declined Slav Defense, 3.Nf3"},
	{Code: "D20", Description: "Queen's Gambit Accepted"},
	{Code: "D30", Description: "Queen's Gambit Declined"},
	{Code: "D31", Description: "Queen's Gambit Declined, Queen's Knight Variation"},
	{Code: "D40", Description: "Queen's Gambit Declined, Semi-Tarrasch Defense"},
	{Code: "D43", Description: "Queen's Gambit Declined, Semi-Slav"},
	{Code: "D50", Description: "Queen's Gambit Declined, 4.Bg5"},
	{Code: "D60", Description: "Queen's Gambit Declined, Orthodox Defense"},
	{Code: "D70", Description: "Neo-Grünfeld Defense"},
	{Code: "D80", Description: "Grünfeld Defense"},
	{Code: "D85", Description: "Grünfeld, Exchange Variation"},
	{Code: "D90", Description: "Grünfeld, Three Knights Variation"},

	// E-series: Indian Defenses
	{Code: "E00", Description: "Queen's Pawn Game, Non-standard replies"},
	{Code: "E01", Description: "Catalan Opening"},
	{Code: "E10", Description: "Queen's Pawn Game, Blumenfeld Counter Gambit"},
	{Code: "E11", Description: "Bogo-Indian Defense"},
	{Code: "E12", Description: "Queen's Indian Defense"},
	{Code: "E20", Description: "Nimzo-Indian Defense"},
	{Code: "E30", Description: "Nimzo-Indian, Leningrad Variation"},
	{Code: "E40", Description: "Nimzo-Indian, 4.e3"},
	{Code: "E50", Description: "Nimzo-Indian, 4.e3 e8g8, 5.Nf3, without ...d5"},
	{Code: "E60", Description: "King's Indian Defense"},
	{Code: "E70", Description: "King's Indian, 4.e4"},
	{Code: "E80", Description: "King's Indian, Sämisch Variation"},
	{Code: "E90", Description: "King's Indian, 5.Nf3"},
}

// fallbackEcoEntries is used when the backend table cannot be fetched.
var fallbackEcoEntries = []EcoEntry{
	{Code: "A00", Description: "Irregular Openings"},
	{Code: "B20", Description: "Sicilian Defence"},
	{Code: "C00", Description: "French Defense"},
	{Code: "D00", Description: "Queen's Pawn Game"},
	{Code: "E00", Description: "Queen's Pawn, Indian Defenses"},
}

// loadingEcoEntries is what the cached accessor serves before the first fetch resolves.
var loadingEcoEntries = []EcoEntry{
	{Code: "A00", Description: "Loading ECO data..."},
}

func StaticEcoTable() *EcoTable {
	return NewEcoTable(staticEcoEntries...)
}

func FallbackEcoTable() *EcoTable {
	return NewEcoTable(fallbackEcoEntries...)
}

func LoadingEcoTable() *EcoTable {
	return NewEcoTable(loadingEcoEntries...)
}
