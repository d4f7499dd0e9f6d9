package visa

// DefaultCatalog returns a fresh copy of the built-in U.S. visa catalog in declaration order.
func DefaultCatalog() []Definition {
	return []Definition{
		{
			ID:          "b2",
			Code:        "B-2",
			Name:        "Visitor for Pleasure",
			Description: "Short visits for tourism, family visits or medical treatment.",
			Category:    CategoryTourist,
			Tier:        TierStart,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(1), Description: "Basic English for the consular interview"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "f1", Reason: "Apply to a U.S. school and change status to study"},
				{VisaID: "j1", Reason: "Join a sponsored exchange program"},
			},
			TimeHorizon: HorizonShort,
			Difficulty:  1,
		},
		{
			ID:          "vwp",
			Code:        "ESTA",
			Name:        "Visa Waiver Program",
			Description: "Visa-free travel of up to 90 days for nationals of participating countries.",
			Category:    CategoryVisitor,
			Tier:        TierStart,
			EligibilityRules: []EligibilityRule{
				{Field: FieldCitizenshipRestrictionCategory, Operator: OpEQ, Value: Str(string(RestrictionUnrestricted)), Description: "Citizen of a participating country"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "b2", Reason: "Longer stays require a visitor visa"},
			},
			TimeHorizon: HorizonShort,
			Difficulty:  1,
		},
		{
			ID:          "f1",
			Code:        "F-1",
			Name:        "Academic Student",
			Description: "Full-time study at an accredited U.S. college, university or language program.",
			Category:    CategoryStudent,
			Tier:        TierEntry,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("high_school"), Description: "High school diploma or equivalent"},
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(2), Description: "English proficiency sufficient for coursework"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "opt", Reason: "Work in your field of study after graduation"},
				{VisaID: "h1b", Reason: "Employer sponsorship through the H-1B lottery"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  1,
		},
		{
			ID:          "j1",
			Code:        "J-1",
			Name:        "Exchange Visitor",
			Description: "Sponsored exchange programs for researchers, scholars, trainees and physicians.",
			Category:    CategoryStudent,
			Tier:        TierEntry,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("bachelors"), Description: "Bachelor's degree or higher"},
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(3), Description: "Working English proficiency"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "h1b", Reason: "Change to H-1B once the home residency requirement is met or waived"},
				{VisaID: "o1", Reason: "Researchers with a strong record can move to O-1"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  2,
		},
		{
			ID:          "opt",
			Code:        "OPT",
			Name:        "Optional Practical Training",
			Description: "Up to 12 months of work authorization tied to an F-1 degree.",
			Category:    CategoryStudent,
			Tier:        TierIntermediate,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("bachelors"), Description: "Completed a bachelor's degree or higher"},
				{Field: FieldPreviousVisa, Operator: OpEQ, Value: Str("f1"), Description: "Currently in F-1 status"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "stemopt", Reason: "STEM graduates can extend OPT by 24 months"},
				{VisaID: "h1b", Reason: "Employer files an H-1B petition during OPT"},
				{VisaID: "o1", Reason: "Exceptional achievements during OPT support an O-1"},
			},
			TimeHorizon: HorizonShort,
			Difficulty:  1,
		},
		{
			ID:          "stemopt",
			Code:        "STEM OPT",
			Name:        "STEM OPT Extension",
			Description: "A 24-month extension of OPT for science, technology, engineering and math degrees.",
			Category:    CategoryStudent,
			Tier:        TierIntermediate,
			EligibilityRules: []EligibilityRule{
				{Field: FieldPreviousVisa, Operator: OpEQ, Value: Str("opt"), Description: "Currently on OPT"},
				{Field: FieldFieldOfWork, Operator: OpIncludes, Value: List("stem", "technology", "engineering", "science", "mathematics"), Description: "Degree in a designated STEM field"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "h1b", Reason: "Extra lottery attempts while on STEM OPT"},
				{VisaID: "o1", Reason: "Build an extraordinary ability record"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  1,
		},
		{
			ID:          "h1b",
			Code:        "H-1B",
			Name:        "Specialty Occupation Worker",
			Description: "Employer-sponsored work in a specialty occupation requiring a degree.",
			Category:    CategoryWorker,
			Tier:        TierEntry,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("bachelors"), Description: "Bachelor's degree or equivalent"},
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(3), Description: "Professional English proficiency"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "eb2gc", Reason: "Employer sponsors an EB-2 green card"},
				{VisaID: "eb3gc", Reason: "Employer sponsors an EB-3 green card"},
				{VisaID: "eb1gc", Reason: "Self-petition or employer EB-1 for top performers"},
				{VisaID: "o1", Reason: "Move to O-1 to avoid the H-1B cap"},
			},
			TimeHorizon: HorizonLong,
			Difficulty:  2,
		},
		{
			ID:          "l1",
			Code:        "L-1",
			Name:        "Intracompany Transferee",
			Description: "Transfer from a foreign affiliate to a U.S. office of the same employer.",
			Category:    CategoryWorker,
			Tier:        TierEntry,
			EligibilityRules: []EligibilityRule{
				{Field: FieldYearsOfExperience, Operator: OpGTE, Value: Num(1), Description: "One year with the company abroad"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "eb1gc", Reason: "Managers and executives qualify for EB-1C"},
				{VisaID: "eb2gc", Reason: "Employer sponsors an EB-2 green card"},
				{VisaID: "h1b", Reason: "Switch to H-1B for longer employment"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  2,
		},
		{
			ID:          "o1",
			Code:        "O-1",
			Name:        "Extraordinary Ability",
			Description: "For individuals with sustained national or international acclaim.",
			Category:    CategoryWorker,
			Tier:        TierIntermediate,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("masters"), Description: "Advanced degree or equivalent distinction"},
				{Field: FieldYearsOfExperience, Operator: OpGTE, Value: Num(5), Description: "Five or more years of recognized achievement"},
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(3), Description: "Professional English proficiency"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "eb1gc", Reason: "O-1 evidence maps closely to EB-1A"},
				{VisaID: "eb2gc", Reason: "National interest waiver under EB-2"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  3,
		},
		{
			ID:          "tn",
			Code:        "TN",
			Name:        "USMCA Professional",
			Description: "Professional work for Canadian and Mexican citizens under USMCA.",
			Category:    CategoryWorker,
			Tier:        TierEntry,
			EligibilityRules: []EligibilityRule{
				{Field: FieldCountryOfCitizenship, Operator: OpIncludes, Value: List("CA", "MX"), Description: "Citizen of Canada or Mexico"},
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("bachelors"), Description: "Degree in a USMCA professional occupation"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "h1b", Reason: "Switch to dual-intent H-1B before a green card"},
				{VisaID: "eb2gc", Reason: "Employer sponsors an EB-2 green card"},
			},
			TimeHorizon: HorizonShort,
			Difficulty:  1,
		},
		{
			ID:          "e2",
			Code:        "E-2",
			Name:        "Treaty Investor",
			Description: "Direct and develop a business after a substantial investment.",
			Category:    CategoryInvestor,
			Tier:        TierEntry,
			EligibilityRules: []EligibilityRule{
				{Field: FieldCountryOfCitizenship, Operator: OpIncludes, Value: List(treatyCountries...), Description: "Citizen of a treaty country"},
				{Field: FieldInvestmentAmount, Operator: OpGTE, Value: Num(100000), Description: "Substantial investment, typically $100,000 or more"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "eb5", Reason: "Expand the investment to qualify for EB-5"},
				{VisaID: "l1", Reason: "Transfer as a manager of an affiliated business"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  2,
		},
		{
			ID:          "eb5",
			Code:        "EB-5",
			Name:        "Immigrant Investor",
			Description: "Green card through investment creating at least ten U.S. jobs.",
			Category:    CategoryInvestor,
			Tier:        TierAdvanced,
			EligibilityRules: []EligibilityRule{
				{Field: FieldInvestmentAmount, Operator: OpGTE, Value: Num(787500), Description: "Investment of at least $787,500 in a targeted employment area"},
				{Field: FieldCitizenshipRestrictionCategory, Operator: OpExcludes, Value: List(string(RestrictionRestricted), string(RestrictionUSNational)), Description: "Not chargeable to a backlogged country"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "citizenship", Reason: "Naturalize after five years as a permanent resident"},
			},
			TimeHorizon: HorizonLong,
			Difficulty:  3,
		},
		{
			ID:          "eb1gc",
			Code:        "EB-1",
			Name:        "Priority Worker Green Card",
			Description: "Permanent residence for extraordinary ability, outstanding researchers and multinational managers.",
			Category:    CategoryImmigrant,
			Tier:        TierAdvanced,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("masters"), Description: "Advanced degree or equivalent distinction"},
				{Field: FieldYearsOfExperience, Operator: OpGTE, Value: Num(10), Description: "A decade of sustained acclaim or leadership"},
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(3), Description: "Professional English proficiency"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "citizenship", Reason: "Naturalize after five years as a permanent resident"},
			},
			TimeHorizon: HorizonMedium,
			Difficulty:  3,
		},
		{
			ID:          "eb2gc",
			Code:        "EB-2",
			Name:        "Advanced Degree Green Card",
			Description: "Permanent residence for advanced degree professionals or exceptional ability.",
			Category:    CategoryImmigrant,
			Tier:        TierAdvanced,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("masters"), Description: "Master's degree or higher"},
				{Field: FieldYearsOfExperience, Operator: OpGTE, Value: Num(2), Description: "Two years of progressive experience"},
				{Field: FieldCitizenshipRestrictionCategory, Operator: OpEQ, Value: Str(string(RestrictionUnrestricted)), Description: "Current priority dates for your country of chargeability"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "citizenship", Reason: "Naturalize after five years as a permanent resident"},
			},
			TimeHorizon: HorizonLong,
			Difficulty:  2,
		},
		{
			ID:          "eb3gc",
			Code:        "EB-3",
			Name:        "Skilled Worker Green Card",
			Description: "Permanent residence for professionals and skilled workers with a job offer.",
			Category:    CategoryImmigrant,
			Tier:        TierAdvanced,
			EligibilityRules: []EligibilityRule{
				{Field: FieldEducationLevel, Operator: OpGTE, Value: Str("bachelors"), Description: "Bachelor's degree for the professional subcategory"},
				{Field: FieldYearsOfExperience, Operator: OpGTE, Value: Num(2), Description: "Two years of training or experience"},
			},
			CommonNextSteps: []NextStep{
				{VisaID: "citizenship", Reason: "Naturalize after five years as a permanent resident"},
			},
			TimeHorizon: HorizonLong,
			Difficulty:  2,
		},
		{
			ID:               "k1",
			Code:             "K-1",
			Name:             "Fiance(e) of a U.S. Citizen",
			Description:      "Entry to marry a U.S. citizen within 90 days.",
			Category:         CategoryFamily,
			Tier:             TierEntry,
			EligibilityRules: []EligibilityRule{},
			CommonNextSteps: []NextStep{
				{VisaID: "citizenship", Reason: "Adjust status after marriage, then naturalize after three years"},
			},
			TimeHorizon: HorizonShort,
			Difficulty:  1,
		},
		{
			ID:          "citizenship",
			Code:        "N-400",
			Name:        "U.S. Citizenship",
			Description: "Naturalization for lawful permanent residents.",
			Category:    CategoryImmigrant,
			Tier:        TierAdvanced,
			EligibilityRules: []EligibilityRule{
				{Field: FieldPreviousVisa, Operator: OpIncludes, Value: List("eb1gc", "eb2gc", "eb3gc", "eb5"), Description: "Lawful permanent resident status"},
				{Field: FieldEnglishProficiency, Operator: OpGTE, Value: Num(2), Description: "Pass the English portion of the naturalization test"},
			},
			CommonNextSteps: []NextStep{},
			TimeHorizon:     HorizonLong,
			Difficulty:      2,
		},
	}
}

var treatyCountries = []string{
	"AR", "AU", "AT", "BE", "CA", "CL", "CO", "DE", "EE", "ES",
	"FI", "FR", "GB", "IE", "IT", "JP", "KR", "MX", "NL", "NO",
	"NZ", "PK", "PL", "SE", "TH", "TR", "TW",
}
