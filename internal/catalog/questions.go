package catalog

import "github.com/jayanta8509/TAX-MCP/pkg/models"

// The 1040NR intake questionnaires. Question ids are dotted keys ordered by
// task; skip conditions reference prior answers by id.

var individualQuestions = []models.Question{
	{
		ID: "1.1", Text: "What is your full legal name?",
		FieldName: "full_legal_name", DataType: models.DataTypeString, Required: true,
		TaskID: 1, TaskName: "Personal Information", SubtaskID: "1.1",
	},
	{
		ID: "1.2", Text: "What is your date of birth?",
		FieldName: "date_of_birth", DataType: models.DataTypeDate, Required: true,
		TaskID: 1, TaskName: "Personal Information", SubtaskID: "1.1",
	},
	{
		ID: "1.3", Text: "What is your country of citizenship?",
		FieldName: "country_of_citizenship", DataType: models.DataTypeString, Required: true,
		TaskID: 1, TaskName: "Personal Information", SubtaskID: "1.2",
	},
	{
		ID: "1.4", Text: "What is your current country of residence?",
		FieldName: "country_of_residence", DataType: models.DataTypeString, Required: true,
		TaskID: 1, TaskName: "Personal Information", SubtaskID: "1.2",
	},
	{
		ID: "2.1", Text: "Do you have an ITIN (Individual Taxpayer Identification Number)?",
		FieldName: "has_itin", DataType: models.DataTypeBoolean, Required: true,
		TaskID: 2, TaskName: "Tax Identification", SubtaskID: "2.1",
	},
	{
		ID: "2.2", Text: "What is your ITIN?",
		FieldName: "itin_number", DataType: models.DataTypeITIN, Required: true,
		TaskID: 2, TaskName: "Tax Identification", SubtaskID: "2.1",
		Condition: `answers["2.1"] == "yes"`,
	},
	{
		ID: "2.3", Text: "Would you like us to prepare a Form W-7 ITIN application for you?",
		FieldName: "needs_w7", DataType: models.DataTypeBoolean, Required: true,
		TaskID: 2, TaskName: "Tax Identification", SubtaskID: "2.1",
		Condition: `answers["2.1"] == "no"`,
	},
	{
		ID: "3.1", Text: "What is your filing status?",
		FieldName: "filing_status", DataType: models.DataTypeString, Required: true,
		TaskID: 3, TaskName: "Filing Details", SubtaskID: "3.1",
	},
	{
		ID: "3.2", Text: "What email address should we use for your filing?",
		FieldName: "email", DataType: models.DataTypeString, Required: true,
		TaskID: 3, TaskName: "Filing Details", SubtaskID: "3.1",
	},
}

var companyQuestions = []models.Question{
	{
		ID: "1.1", Text: "What is the company's legal name?",
		FieldName: "legal_name", DataType: models.DataTypeString, Required: true,
		TaskID: 1, TaskName: "Company Profile", SubtaskID: "1.1",
	},
	{
		ID: "1.2", Text: "Does the company operate under a DBA (doing business as) name?",
		FieldName: "dba", DataType: models.DataTypeString, Required: false,
		TaskID: 1, TaskName: "Company Profile", SubtaskID: "1.1",
	},
	{
		ID: "1.3", Text: "What is the company's FEIN (Federal Employer Identification Number)?",
		FieldName: "fein", DataType: models.DataTypeString, Required: true,
		TaskID: 1, TaskName: "Company Profile", SubtaskID: "1.1",
	},
	{
		ID: "1.4", Text: "What email address should we use for the company?",
		FieldName: "email", DataType: models.DataTypeString, Required: true,
		TaskID: 1, TaskName: "Company Profile", SubtaskID: "1.2",
	},
	{
		ID: "2.1", Text: "What is the company's filing status?",
		FieldName: "filing_status", DataType: models.DataTypeString, Required: true,
		TaskID: 2, TaskName: "Filing Details", SubtaskID: "2.1",
	},
	{
		ID: "2.2", Text: "Has the company been dissolved?",
		FieldName: "is_dissolved", DataType: models.DataTypeBoolean, Required: true,
		TaskID: 2, TaskName: "Filing Details", SubtaskID: "2.1",
	},
	{
		ID: "2.3", Text: "What was the date of dissolution?",
		FieldName: "date_of_dissolution", DataType: models.DataTypeDate, Required: true,
		TaskID: 2, TaskName: "Filing Details", SubtaskID: "2.1",
		Condition: `answers["2.2"] == "yes"`,
	},
}
