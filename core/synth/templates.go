package synth

import "github.com/FocuswithJustin/juniper-corpus/core/canon"

// templates holds the filler pools per genre. Changing any entry changes
// synthesized text and requires a new corpus format version.
var templates = map[canon.Genre][]string{
	canon.GenreWisdom: {
		"A song of praise and reflection; the text of this verse is to be completed.",
		"Words of wisdom for the one who listens; the text of this verse is to be completed.",
		"A meditation on the ways of the righteous; the text of this verse is to be completed.",
		"A lament lifted up in a time of trouble; the text of this verse is to be completed.",
		"A proverb on understanding and the fear of the Lord; the text of this verse is to be completed.",
	},
	canon.GenreNarrative: {
		"The account of the people continues here; the text of this verse is to be completed.",
		"The record of the generations goes on; the text of this verse is to be completed.",
		"The law given to the people is set down here; the text of this verse is to be completed.",
		"The journey of the tribes continues; the text of this verse is to be completed.",
		"The deeds of the kings are recorded here; the text of this verse is to be completed.",
	},
	canon.GenreGospel: {
		"Jesus taught the crowds that gathered; the text of this verse is to be completed.",
		"The disciples followed him along the way; the text of this verse is to be completed.",
		"A parable spoken to those who would hear; the text of this verse is to be completed.",
		"A sign was done among the people; the text of this verse is to be completed.",
	},
	canon.GenreEpistle: {
		"Grace and peace to the church; the text of this verse is to be completed.",
		"An exhortation to walk in love and faith; the text of this verse is to be completed.",
		"Instruction for the brethren concerning the gospel; the text of this verse is to be completed.",
		"A greeting to the saints in every place; the text of this verse is to be completed.",
	},
	canon.GenreProphetic: {
		"Thus says the Lord to his people; the text of this verse is to be completed.",
		"A vision concerning the days to come; the text of this verse is to be completed.",
		"The word of the Lord came to the prophet; the text of this verse is to be completed.",
		"A warning spoken against the nations; the text of this verse is to be completed.",
		"A promise of restoration for those who return; the text of this verse is to be completed.",
	},
	canon.GenreDefault: {
		"The text of this verse is to be completed.",
		"This passage continues the account; its text is to be completed.",
		"The words of this verse are to be completed.",
	},
}
