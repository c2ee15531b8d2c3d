package areas

func defaultResolver() *Resolver {
	return &Resolver{sets: map[string]Set{
		"product-management": {
			Title:       "Product Management specifications",
			Description: "Product expertise shapes the ideal profile",
			Questions: []Question{
				{ID: "customer_contact", Label: "Will they talk to users/customers directly?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "weekly", Label: "Weekly"},
					{Value: "monthly", Label: "Monthly"},
					{Value: "occasionally", Label: "Occasionally"},
					{Value: "no", Label: "No"},
				}},
				{ID: "technical_level", Label: "How technical should they be?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "high-technical", Label: "Understands code and architecture"},
					{Value: "medium-technical", Label: "Fluent with developers"},
					{Value: "business-focused", Label: "Business and UX only"},
				}},
				{ID: "roadmap_scope", Label: "Full roadmap or specific features?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "full-roadmap", Label: "Full product roadmap"},
					{Value: "feature-specific", Label: "Specific features"},
					{Value: "area-roadmap", Label: "Roadmap of one area"},
				}},
				{ID: "squad_size", Label: "Developers and designers in the direct squad", Kind: KindText, Required: true},
				{ID: "reports_to", Label: "Reports to", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "ceo", Label: "CEO"},
					{Value: "cpo", Label: "CPO"},
					{Value: "cto", Label: "CTO"},
					{Value: "head-product", Label: "Head of Product"},
				}},
				{ID: "product_stage", Label: "Product stage", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "pre-pmf", Label: "Pre-PMF"},
					{Value: "pmf-confirmed", Label: "PMF confirmed"},
					{Value: "growth-accelerated", Label: "Accelerated growth"},
					{Value: "mature-product", Label: "Mature product"},
				}},
				{ID: "business_model", Label: "Business model", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "b2b", Label: "B2B"},
					{Value: "b2c", Label: "B2C"},
					{Value: "b2b2c", Label: "B2B2C"},
					{Value: "marketplace", Label: "Marketplace"},
					{Value: "freemium", Label: "Freemium"},
					{Value: "subscription", Label: "Subscription"},
				}},
				{ID: "pricing_involvement", Label: "Defines pricing or business model?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "yes", Label: "Yes, owns the definition"},
					{Value: "collaborate", Label: "Collaborates on it"},
					{Value: "no", Label: "Not involved"},
				}},
				{ID: "research_involvement", Label: "Involved in customer research?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "executes", Label: "Executes directly"},
					{Value: "collaborates", Label: "Collaborates with research"},
					{Value: "receives", Label: "Receives insights"},
				}},
			},
		},
		"engineering-tech": {
			Title:       "Engineering/Tech specifications",
			Description: "Technical context to find the right candidate",
			Questions: []Question{
				{ID: "tech_stack", Label: "Main stack they must master", Kind: KindText, Required: true},
				{ID: "direct_reports", Label: "Developers reporting to them directly", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "0", Label: "0 (individual contributor)"},
					{Value: "1-3", Label: "1-3 developers"},
					{Value: "4-6", Label: "4-6 developers"},
					{Value: "7-10", Label: "7-10 developers"},
					{Value: "10+", Label: "10+ developers"},
				}},
				{ID: "role_type", Label: "Individual contributor or management?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "ic-heavy", Label: "80%+ coding (pure IC)"},
					{Value: "hybrid", Label: "Hybrid (code + management)"},
					{Value: "management", Label: "Pure management"},
				}},
				{ID: "architecture", Label: "Current architecture", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "monolithic", Label: "Monolithic"},
					{Value: "microservices", Label: "Microservices"},
					{Value: "hybrid", Label: "Hybrid"},
				}},
				{ID: "cloud_provider", Label: "Main cloud provider", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "aws", Label: "AWS"},
					{Value: "gcp", Label: "Google Cloud Platform"},
					{Value: "azure", Label: "Microsoft Azure"},
					{Value: "on-premise", Label: "On-premise"},
				}},
				{ID: "code_reviews", Label: "Active code reviews expected?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "regular", Label: "Yes, regularly"},
					{Value: "occasional", Label: "Occasionally"},
					{Value: "no", Label: "No"},
				}},
				{ID: "on_call", Label: "24/7 on-call duty?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "yes", Label: "Yes, individual shifts"},
					{Value: "rotation", Label: "Team rotation"},
					{Value: "no", Label: "No"},
				}},
				{ID: "devops_responsibilities", Label: "DevOps responsibilities", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "full-devops", Label: "Owns deployment and infra"},
					{Value: "collaborate", Label: "Collaborates with DevOps"},
					{Value: "no", Label: "Not involved"},
				}},
				{ID: "migration_projects", Label: "Migration/refactoring projects planned?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "major", Label: "Major (architecture, main stack)"},
					{Value: "minor", Label: "Minor (libraries, optimizations)"},
					{Value: "no", Label: "None planned"},
				}},
			},
		},
		"growth": {
			Title:       "Growth specifications",
			Description: "Growth expertise shapes the profile",
			Questions: []Question{
				{ID: "growth_focus", Label: "Main focus", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "acquisition", Label: "Acquisition (new users)"},
					{Value: "retention", Label: "Retention (existing users)"},
					{Value: "revenue", Label: "Revenue expansion"},
					{Value: "hybrid", Label: "Hybrid (multiple areas)"},
				}},
				{ID: "execution_level", Label: "Runs campaigns hands-on?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "hands-on", Label: "Yes, fully hands-on"},
					{Value: "supervise", Label: "Supervises execution"},
					{Value: "strategy", Label: "Strategy only"},
				}},
				{ID: "budget_management", Label: "Marketing budget managed directly", Kind: KindText, Required: true},
				{ID: "current_channels", Label: "Main current channels", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "paid-ads", Label: "Paid ads"},
					{Value: "content", Label: "Content marketing"},
					{Value: "email", Label: "Email marketing"},
					{Value: "organic", Label: "Organic/SEO"},
					{Value: "partnerships", Label: "Partnerships"},
				}},
				{ID: "technical_analysis", Label: "Does technical analysis?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "sql-tools", Label: "SQL and data tools directly"},
					{Value: "collaborate", Label: "Collaborates with data team"},
					{Value: "receives", Label: "Receives prepared reports"},
				}},
				{ID: "ab_testing", Label: "A/B testing hands-on?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "configures", Label: "Configures and analyzes experiments"},
					{Value: "supervises", Label: "Supervises experiments"},
					{Value: "collaborates", Label: "Collaborates on design"},
				}},
				{ID: "product_integration", Label: "Works with product on growth features?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "integrated", Label: "Deeply integrated (defines features)"},
					{Value: "collaborates", Label: "Collaborates regularly"},
					{Value: "independent", Label: "Works independently"},
				}},
				{ID: "international", Label: "International expansion in scope?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "active", Label: "Yes, actively working on it"},
					{Value: "future", Label: "Future (6-12 months)"},
					{Value: "no", Label: "Not in scope"},
				}},
				{ID: "reports_to_growth", Label: "Reports to", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "ceo", Label: "CEO"},
					{Value: "cmo", Label: "CMO"},
					{Value: "head-growth", Label: "Head of Growth"},
					{Value: "cpo", Label: "CPO"},
				}},
			},
		},
		"design": {
			Title:       "Design specifications",
			Description: "Design expertise shapes the profile",
			Questions: []Question{
				{ID: "design_type", Label: "Main design discipline", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "ux-research", Label: "UX Research"},
					{Value: "ui-design", Label: "UI Design"},
					{Value: "visual-design", Label: "Visual Design"},
					{Value: "ux-ui-hybrid", Label: "UX+UI hybrid"},
				}},
				{ID: "user_research", Label: "Runs user research directly?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "executes", Label: "Yes, executes research"},
					{Value: "collaborates", Label: "Collaborates with research team"},
					{Value: "receives", Label: "Receives prepared insights"},
				}},
				{ID: "design_system", Label: "Owns the design system?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "creates-maintains", Label: "Creates and maintains it"},
					{Value: "contributes", Label: "Contributes to an existing one"},
					{Value: "uses-existing", Label: "Uses an existing one"},
				}},
				{ID: "platform", Label: "Main platform", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "web", Label: "Web"},
					{Value: "mobile", Label: "Mobile"},
					{Value: "both", Label: "Both (web + mobile)"},
					{Value: "desktop", Label: "Desktop"},
				}},
				{ID: "team_structure", Label: "Solo or with other designers?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "solo", Label: "Only designer"},
					{Value: "small-team", Label: "Small team (2-3)"},
					{Value: "large-team", Label: "Large team (4+)"},
				}},
				{ID: "brand_involvement", Label: "Brand design involved?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "product-only", Label: "Product only"},
					{Value: "also-marketing", Label: "Marketing too"},
					{Value: "also-brand", Label: "Brand too"},
				}},
				{ID: "prototyping", Label: "Prototyping hands-on?", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "figma-advanced", Label: "Advanced Figma"},
					{Value: "code-tools", Label: "Code tools"},
					{Value: "basic", Label: "Basic prototyping"},
				}},
				{ID: "usability_testing", Label: "Usability testing execution", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "plans-executes", Label: "Plans and executes"},
					{Value: "collaborates", Label: "Collaborates on testing"},
					{Value: "receives", Label: "Receives results"},
				}},
				{ID: "reports_to_design", Label: "Reports to", Kind: KindSelect, Required: true, Options: []Option{
					{Value: "cpo", Label: "CPO"},
					{Value: "head-design", Label: "Head of Design"},
					{Value: "cto", Label: "CTO"},
					{Value: "ceo", Label: "CEO"},
				}},
			},
		},
	}}
}
