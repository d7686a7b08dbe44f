package usecase

import "ReviewTriage/internal/domain"

const spamPrompt = `You are an expert at identifying spam and NSFW content in {label}s. You are given a {noun} written by a user about {context}. Label the {noun} as spam, nsfw or notspam. Respond with a JSON object with fields "category" and "reason". The "category" field must be one of "spam", "nsfw" or "notspam". The "reason" field explains the label.

Review: {review}

Output:`

const classifyPrompt = `You are an expert at labelling a {label} as bug, feature_request, question or feedback. You are given a {noun} written by a user about {context}. Respond with a JSON object with fields "category", "summary" and "reason". The "category" field must be one of "bug", "feature_request", "question" or "feedback". The "summary" field summarizes the {noun} in 20 words. The "reason" field explains the label.

Review: {review}

Output:`

const duplicatePrompt = `Known summaries: {summaries}

Candidate summary: {summary}

Query: {review}

Output:`

var duplicateInstructions = map[domain.Category]string{
	domain.CategoryBug: `You are an expert in understanding and summarising bug reports. You are given a list of summaries and a bug reported by a customer. Answer in JSON with a field "answer". "answer" is the single number 0 if no similar bug report exists in the list, or 1 if a similar bug report exists in the list. Return 0 if the list is empty.`,
	domain.CategoryFeatureRequest: `You are an expert in understanding technical feature requests. You are given a list of feature request summaries and a customer feature request. Answer in JSON with a field "answer". "answer" is the single number 0 if no similar feature request exists in the list, or 1 if a similar feature request exists in the list. Return 0 if the list is empty.`,
	domain.CategoryQuestion: `You are an expert in understanding customer questions. You are given a list of summaries and a customer question. Answer in JSON with a field "answer". "answer" is the single number 0 if no similar question exists in the list, or 1 if a similar question exists in the list. Return 0 if the list is empty.`,
	domain.CategoryFeedback: `You are an expert in understanding customer feedback. You are given a list of feedback summaries and a customer feedback. Answer in JSON with a field "answer". "answer" is the single number 0 if no similar feedback exists in the list, or 1 if a similar feedback exists in the list. Return 0 if the list is empty.`,
}

const impactPrompt = `You are an expert at understanding the business impact of a {kind}. You are given a {noun} written by a user about {context}. Respond with a JSON object with fields "impact" and "severity". The "impact" field explains the impact in under 40 words. The "severity" field is a single number between 0 and 10.

Review: {review}

Output:`

const bestOfPrompt = `You are an expert at understanding {subject}. You are given a list of {items} written by users about {context}. Respond with a JSON object with a field "answer". The "answer" field {ask} in less than 50 words.

Review: {review}

Output:`

type bestOf struct {
	category domain.Category
	subject  string
	items    string
	ask      string
	prefix   string
	empty    string
}

// bestOfReports run in this order at the end of every run.
var bestOfReports = []bestOf{
	{
		category: domain.CategoryFeatureRequest,
		subject:  "feature requests",
		items:    "feature request summaries",
		ask:      "explains the top requested feature",
		prefix:   "Top requested feature: ",
		empty:    "no feature requests found",
	},
	{
		category: domain.CategoryBug,
		subject:  "reported bugs",
		items:    "bug summaries",
		ask:      "explains the top reported bug",
		prefix:   "Top reported bug: ",
		empty:    "no bugs found",
	},
	{
		category: domain.CategoryFeedback,
		subject:  "customer feedback",
		items:    "feedback summaries",
		ask:      "explains the best or most representative feedback",
		prefix:   "Top customer feedback: ",
		empty:    "no feedback found",
	},
	{
		category: domain.CategoryQuestion,
		subject:  "business intricacies and filling customer knowledge gaps",
		items:    "customer question summaries",
		ask:      "explains the knowledge gaps of the customers",
		prefix:   "Customer knowledge gaps: ",
		empty:    "no questions found",
	},
}
