package types

// Well-known taxonomy concept identifiers the pipeline depends on.
// These are stable across taxonomy versions; labels are the Swedish
// preferred labels at the time of writing.
const (
	// Worktime extents.
	ConceptIDHeltid = "6YE1_gAC_R2G" // Heltid
	ConceptIDDeltid = "947z_JGS_Uk2" // Deltid

	// Durations.
	ConceptIDTillsVidare = "a7uU_j21_mkL" // Tills vidare
	ConceptIDUpp6Manader = "gJRb_akA_95y" // 3 månader – upp till 6 månader

	// Employment types.
	ConceptIDVanligAnstallning = "PFZr_Syz_cUq" // Vanlig anställning
	ConceptIDSommarjobb        = "Jh8f_q9J_pbJ" // Sommarjobb / feriejobb
	ConceptIDBehovsanstallning = "1paU_aCR_nGn" // Behovsanställning
	ConceptIDExtrajobb         = "EFzU_8wN_q4R" // Extrajobb
	ConceptIDSasongsarbete     = "gAKW_eby_CmP" // Säsongsanställning
	ConceptIDArbeteUtomlands   = "9Waa_tA9_Aon" // Arbete utomlands

	// Wage types.
	ConceptIDFastLon = "oG8G_9cW_nRf" // Fast månads- vecko- eller timlön

	// Countries.
	ConceptIDSverige = "i46j_HmG_v64" // Sverige
)
