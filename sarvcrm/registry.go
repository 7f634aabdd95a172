package sarvcrm

// moduleDescriptors enumerates every module the remote service exposes.
// Phone fields mark the modules the phone-number search walks.
var moduleDescriptors = []Descriptor{
	{Name: "Accounts", Label: "Accounts", PhoneField: "phone_office"},
	{Name: "AosContracts", Label: "Contracts"},
	{Name: "AosInvoices", Label: "Invoices"},
	{Name: "AosPdfTemplates", Label: "PDF Templates"},
	{Name: "AosProductCategories", Label: "Product Categories"},
	{Name: "AosProducts", Label: "Products"},
	{Name: "AosQuotes", Label: "Quotes"},
	{Name: "Appointments", Label: "Appointments"},
	{Name: "Approval", Label: "Approvals"},
	{Name: "AsolProject", Label: "Projects"},
	{Name: "Branches", Label: "Branches", PhoneField: "phone_office"},
	{Name: "Bugs", Label: "Bugs"},
	{Name: "Calls", Label: "Calls"},
	{Name: "Cases", Label: "Cases"},
	{Name: "Campaigns", Label: "Campaigns"},
	{Name: "Communications", Label: "Communications"},
	{Name: "CommunicationsTarget", Label: "Communication Targets"},
	{Name: "CommunicationsTemplate", Label: "Communication Templates"},
	{Name: "Contacts", Label: "Contacts", PhoneField: "phone_mobile"},
	{Name: "Deposits", Label: "Deposits"},
	{Name: "Documents", Label: "Documents"},
	{Name: "Emails", Label: "Emails"},
	{Name: "KnowledgeBase", Label: "Knowledge Base"},
	{Name: "KnowledgeBaseCategories", Label: "Knowledge Base Categories"},
	{Name: "Leads", Label: "Leads", PhoneField: "phone_mobile"},
	{Name: "Meetings", Label: "Meetings"},
	{Name: "Notes", Label: "Notes"},
	{Name: "ObjConditions", Label: "Objective Conditions"},
	{Name: "ObjIndicators", Label: "Objective Indicators"},
	{Name: "ObjObjectives", Label: "Objectives"},
	{Name: "Opportunities", Label: "Opportunities"},
	{Name: "Payments", Label: "Payments"},
	{Name: "PurchaseOrder", Label: "Purchase Orders"},
	{Name: "ScCompetitor", Label: "Competitors"},
	{Name: "ScContract", Label: "Service Contracts"},
	{Name: "ScContractManagement", Label: "Contract Management"},
	{Name: "ServiceCenters", Label: "Service Centers", PhoneField: "phone_office"},
	{Name: "Tasks", Label: "Tasks"},
	{Name: "Timesheet", Label: "Timesheets"},
	{Name: "Vendors", Label: "Vendors", PhoneField: "phone_office"},
}

// modules exposes one named proxy per known remote module, bound to the
// owning client's session.
type modules struct {
	Accounts                *Module
	AosContracts            *Module
	AosInvoices             *Module
	AosPdfTemplates         *Module
	AosProductCategories    *Module
	AosProducts             *Module
	AosQuotes               *Module
	Appointments            *Module
	Approval                *Module
	AsolProject             *Module
	Branches                *Module
	Bugs                    *Module
	Calls                   *Module
	Cases                   *Module
	Campaigns               *Module
	Communications          *Module
	CommunicationsTarget    *Module
	CommunicationsTemplate  *Module
	Contacts                *Module
	Deposits                *Module
	Documents               *Module
	Emails                  *Module
	KnowledgeBase           *Module
	KnowledgeBaseCategories *Module
	Leads                   *Module
	Meetings                *Module
	Notes                   *Module
	ObjConditions           *Module
	ObjIndicators           *Module
	ObjObjectives           *Module
	Opportunities           *Module
	Payments                *Module
	PurchaseOrder           *Module
	ScCompetitor            *Module
	ScContract              *Module
	ScContractManagement    *Module
	ServiceCenters          *Module
	Tasks                   *Module
	Timesheet               *Module
	Vendors                 *Module
}

// bindModules builds the registry and wires the named proxy fields.
func (c *Client) bindModules() {
	c.registry = make(map[string]*Module, len(moduleDescriptors))
	for _, desc := range moduleDescriptors {
		c.registry[desc.Name] = newModule(c, desc)
	}

	c.modules = modules{
		Accounts:                c.registry["Accounts"],
		AosContracts:            c.registry["AosContracts"],
		AosInvoices:             c.registry["AosInvoices"],
		AosPdfTemplates:         c.registry["AosPdfTemplates"],
		AosProductCategories:    c.registry["AosProductCategories"],
		AosProducts:             c.registry["AosProducts"],
		AosQuotes:               c.registry["AosQuotes"],
		Appointments:            c.registry["Appointments"],
		Approval:                c.registry["Approval"],
		AsolProject:             c.registry["AsolProject"],
		Branches:                c.registry["Branches"],
		Bugs:                    c.registry["Bugs"],
		Calls:                   c.registry["Calls"],
		Cases:                   c.registry["Cases"],
		Campaigns:               c.registry["Campaigns"],
		Communications:          c.registry["Communications"],
		CommunicationsTarget:    c.registry["CommunicationsTarget"],
		CommunicationsTemplate:  c.registry["CommunicationsTemplate"],
		Contacts:                c.registry["Contacts"],
		Deposits:                c.registry["Deposits"],
		Documents:               c.registry["Documents"],
		Emails:                  c.registry["Emails"],
		KnowledgeBase:           c.registry["KnowledgeBase"],
		KnowledgeBaseCategories: c.registry["KnowledgeBaseCategories"],
		Leads:                   c.registry["Leads"],
		Meetings:                c.registry["Meetings"],
		Notes:                   c.registry["Notes"],
		ObjConditions:           c.registry["ObjConditions"],
		ObjIndicators:           c.registry["ObjIndicators"],
		ObjObjectives:           c.registry["ObjObjectives"],
		Opportunities:           c.registry["Opportunities"],
		Payments:                c.registry["Payments"],
		PurchaseOrder:           c.registry["PurchaseOrder"],
		ScCompetitor:            c.registry["ScCompetitor"],
		ScContract:              c.registry["ScContract"],
		ScContractManagement:    c.registry["ScContractManagement"],
		ServiceCenters:          c.registry["ServiceCenters"],
		Tasks:                   c.registry["Tasks"],
		Timesheet:               c.registry["Timesheet"],
		Vendors:                 c.registry["Vendors"],
	}
}
