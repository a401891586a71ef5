package canon

// aliases lists the known spellings of each book beyond its OSIS id and
// display name: common abbreviations plus Portuguese, Spanish, French and
// German names. Numbered books use the "1 X" form; the resolver also accepts
// "1X", "I X", "First X" and "1. X" through normalization.
var aliases = map[string][]string{
	// Old Testament
	"Gen":   {"Gn", "Ge", "Gênesis", "Génesis", "Genèse", "1 Mose"},
	"Exod":  {"Ex", "Exo", "Exodo", "Êxodo", "Éxodo", "Exode", "2 Mose"},
	"Lev":   {"Lv", "Levítico", "Lévitique", "3 Mose"},
	"Num":   {"Nm", "Nb", "Números", "Nombres", "4 Mose"},
	"Deut":  {"Dt", "Deuteronômio", "Deuteronomio", "Deutéronome", "5 Mose"},
	"Josh":  {"Js", "Jos", "Josué", "Josua"},
	"Judg":  {"Jdg", "Jg", "Juízes", "Jueces", "Juges", "Richter"},
	"Ruth":  {"Rt", "Ru", "Rute", "Rut"},
	"1Sam":  {"1 Sm", "1 Sa", "1 Kingdoms"},
	"2Sam":  {"2 Sm", "2 Sa", "2 Kingdoms"},
	"1Kgs":  {"1 Kgs", "1 Ki", "1 Rs", "1 Reis", "1 Reyes", "1 Rois", "1 Könige", "3 Kingdoms"},
	"2Kgs":  {"2 Kgs", "2 Ki", "2 Rs", "2 Reis", "2 Reyes", "2 Rois", "2 Könige", "4 Kingdoms"},
	"1Chr":  {"1 Chr", "1 Ch", "1 Cr", "1 Crônicas", "1 Crónicas", "1 Chroniques", "1 Chronik", "1 Paralipomenon"},
	"2Chr":  {"2 Chr", "2 Ch", "2 Cr", "2 Crônicas", "2 Crónicas", "2 Chroniques", "2 Chronik", "2 Paralipomenon"},
	"Ezra":  {"Ezr", "Esdras", "Esra"},
	"Neh":   {"Ne", "Neemias", "Nehemías", "Néhémie", "Nehemia"},
	"Esth":  {"Est", "Es", "Ester", "Esther"},
	"Job":   {"Jb", "Hiob"},
	"Ps":    {"Psa", "Psalm", "Pss", "Sl", "Sal", "Salmo", "Salmos", "Psaume", "Psaumes", "Psalmen"},
	"Prov":  {"Pr", "Pv", "Prv", "Provérbios", "Proverbios", "Proverbes", "Sprüche", "Sprichwörter"},
	"Eccl":  {"Ec", "Ecc", "Qoh", "Qoheleth", "Eclesiastes", "Eclesiastés", "Ecclésiaste", "Prediger", "Kohelet"},
	"Song":  {"Sg", "SoS", "Song of Songs", "Canticles", "Canticle of Canticles", "Ct", "Cânticos", "Cântico dos Cânticos", "Cantares", "Cantar de los Cantares", "Cantique des Cantiques", "Hoheslied"},
	"Isa":   {"Is", "Isaías", "Ésaïe", "Isaïe", "Jesaja"},
	"Jer":   {"Jr", "Je", "Jeremias", "Jeremías", "Jérémie", "Jeremia"},
	"Lam":   {"Lm", "La", "Lamentações", "Lamentaciones", "Klagelieder"},
	"Ezek":  {"Ez", "Eze", "Ezequiel", "Ézéchiel", "Hesekiel", "Ezechiel"},
	"Dan":   {"Dn", "Da"},
	"Hos":   {"Os", "Ho", "Oséias", "Oseias", "Oseas", "Osée"},
	"Joel":  {"Jl", "Joël"},
	"Amos":  {"Am", "Amós"},
	"Obad":  {"Ob", "Obd", "Obadias", "Abdías", "Abdias", "Obadja"},
	"Jonah": {"Jnh", "Jon", "Jonas", "Jonás", "Jona"},
	"Mic":   {"Mq", "Mi", "Miquéias", "Miqueias", "Miqueas", "Michée", "Micha"},
	"Nah":   {"Na", "Naum", "Nahúm"},
	"Hab":   {"Hc", "Habacuque", "Habacuc", "Habakuk"},
	"Zeph":  {"Zep", "Sf", "Sofonias", "Sofonías", "Sophonie", "Zefanja"},
	"Hag":   {"Hg", "Ag", "Ageu", "Hageo", "Aggée"},
	"Zech":  {"Zec", "Zc", "Zacarias", "Zacarías", "Zacharie", "Sacharja"},
	"Mal":   {"Ml", "Malaquias", "Malaquías", "Malachie", "Maleachi"},
	// New Testament
	"Matt":   {"Mt", "Mat", "Mateus", "Mateo", "Matthieu", "Matthäus"},
	"Mark":   {"Mk", "Mc", "Mr", "Marcos", "Marc", "Markus"},
	"Luke":   {"Lk", "Lc", "Lu", "Lucas", "Luc", "Lukas"},
	"John":   {"Jn", "Jhn", "Joh", "João", "Juan", "Jean", "Johannes"},
	"Acts":   {"At", "Ac", "Act", "Atos", "Hechos", "Actes", "Apostelgeschichte", "Acts of the Apostles"},
	"Rom":    {"Rm", "Ro", "Romanos", "Romains", "Römer"},
	"1Cor":   {"1 Co", "1 Cor", "1 Coríntios", "1 Corintios", "1 Corinthiens", "1 Korinther"},
	"2Cor":   {"2 Co", "2 Cor", "2 Coríntios", "2 Corintios", "2 Corinthiens", "2 Korinther"},
	"Gal":    {"Gl", "Ga", "Gálatas", "Galates", "Galater"},
	"Eph":    {"Ef", "Efésios", "Efesios", "Éphésiens", "Epheser"},
	"Phil":   {"Php", "Fp", "Flp", "Filipenses", "Philippiens", "Philipper"},
	"Col":    {"Cl", "Colossenses", "Colosenses", "Colossiens", "Kolosser"},
	"1Thess": {"1 Th", "1 Ts", "1 Tessalonicenses", "1 Tesalonicenses", "1 Thessaloniciens", "1 Thessalonicher"},
	"2Thess": {"2 Th", "2 Ts", "2 Tessalonicenses", "2 Tesalonicenses", "2 Thessaloniciens", "2 Thessalonicher"},
	"1Tim":   {"1 Tm", "1 Ti", "1 Timóteo", "1 Timoteo", "1 Timothée", "1 Timotheus"},
	"2Tim":   {"2 Tm", "2 Ti", "2 Timóteo", "2 Timoteo", "2 Timothée", "2 Timotheus"},
	"Titus":  {"Tt", "Tit", "Tito", "Tite"},
	"Phlm":   {"Phm", "Fm", "Flm", "Filemom", "Filemón", "Philémon"},
	"Heb":    {"Hb", "He", "Hebreus", "Hebreos", "Hébreux", "Hebräer"},
	"Jas":    {"Jm", "Jam", "Tg", "Tiago", "Santiago", "Jacques", "Jakobus", "Iacobus"},
	"1Pet":   {"1 Pe", "1 Pt", "1 Pd", "1 Pedro", "1 Pierre", "1 Petrus"},
	"2Pet":   {"2 Pe", "2 Pt", "2 Pd", "2 Pedro", "2 Pierre", "2 Petrus"},
	"1John":  {"1 Jn", "1 Jo", "1 Jhn", "1 João", "1 Juan", "1 Jean", "1 Johannes"},
	"2John":  {"2 Jn", "2 Jo", "2 Jhn", "2 João", "2 Juan", "2 Jean", "2 Johannes"},
	"3John":  {"3 Jn", "3 Jo", "3 Jhn", "3 João", "3 Juan", "3 Jean", "3 Johannes"},
	"Jude":   {"Jd", "Jud", "Judas"},
	"Rev":    {"Re", "Rv", "Ap", "Apoc", "Apocalypse", "Apocalipse", "Apocalipsis", "Offenbarung", "Revelations", "Revelation of John"},
}

// exactAliases match only as written, ignoring case. Their folded forms
// would collide with another book's abbreviation ("Jó" and "Jo").
var exactAliases = map[string][]string{
	"Job": {"Jó"},
}
