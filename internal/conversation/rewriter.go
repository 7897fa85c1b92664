package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/calendar"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/observability/metrics"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

// Rewriter repairs the model's calendar arithmetic after every completion.
// The model drafts the conversational tone; the rewriter owns every date,
// weekday, and business-hours claim in the final response. All stages are
// pure string transforms anchored to a single wall-clock instant, so a
// rewrite is deterministic and safe to apply twice.
type Rewriter struct {
	policy  calendar.Policy
	logger  *logging.Logger
	metrics *metrics.ChatMetrics
}

func NewRewriter(policy calendar.Policy, logger *logging.Logger, m *metrics.ChatMetrics) *Rewriter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Rewriter{policy: policy, logger: logger, metrics: m}
}

// rewriteState carries per-request context between stages.
type rewriteState struct {
	userInput string
	history   []session.Turn
	anchor    time.Time

	userDate    time.Time
	hasUserDate bool

	// policyApplied is set when a stage replaced the whole response with a
	// policy refusal; later stages must not decorate a refusal.
	policyApplied bool
}

// Rewrite runs the full correction pipeline over a draft response. anchor is
// the instant the user's message arrived; every relative date resolves
// against it.
func (r *Rewriter) Rewrite(response, userInput string, history []session.Turn, anchor time.Time) string {
	st := &rewriteState{userInput: userInput, history: history, anchor: anchor}
	if d, _, ok := calendar.ExtractDate(userInput, anchor); ok {
		st.userDate = d
		st.hasUserDate = true
	}

	out := response
	out = r.applyStage(out, st, rulePlaceholderDate, r.replacePlaceholders)
	out = r.applyStage(out, st, ruleVaguePhrase, r.replaceVaguePhrases)
	out = r.applyStage(out, st, ruleBareWeekday, r.stampBareWeekdays)
	out = r.applyStage(out, st, ruleTomorrow, r.annotateTomorrow)
	out = r.applyStage(out, st, ruleUserDateRepair, r.reconcileUserDate)
	out = r.applyStage(out, st, ruleOutOfHours, r.enforceBusinessHours)
	out = r.applyStage(out, st, ruleSummaryAppended, r.appendSummary)
	return out
}

func (r *Rewriter) applyStage(in string, st *rewriteState, rule string, fn func(string, *rewriteState) string) string {
	out := fn(in, st)
	if out != in {
		r.logger.Debug("response rewrite applied", "rule", rule)
		r.metrics.ObserveRewriteRule(rule)
	}
	return out
}

// replacePlaceholders swaps bracketed date placeholders for today's date.
func (r *Rewriter) replacePlaceholders(resp string, st *rewriteState) string {
	return placeholderDateRe.ReplaceAllString(resp, calendar.FormatLong(st.anchor))
}

// replaceVaguePhrases resolves "next Friday", "this coming Monday" and
// similar phrases to the weekday's next occurrence after the anchor.
func (r *Rewriter) replaceVaguePhrases(resp string, st *rewriteState) string {
	return vaguePhraseRe.ReplaceAllStringFunc(resp, func(m string) string {
		sub := vaguePhraseRe.FindStringSubmatch(m)
		day, ok := calendar.ParseWeekday(sub[1])
		if !ok {
			return m
		}
		return calendar.FormatLong(calendar.NextOccurrence(st.anchor, day))
	})
}

// stampBareWeekdays attaches a concrete date to every naked weekday name in
// a scheduling response. Hours-only answers, responses already refusing a
// closed day, and exchanges where the user named an explicit date are left
// alone.
func (r *Rewriter) stampBareWeekdays(resp string, st *rewriteState) string {
	if st.policyApplied || st.hasUserDate {
		return resp
	}
	lowerResp := strings.ToLower(resp)
	if strings.Contains(lowerResp, "closed on sunday") {
		return resp
	}
	if containsAny(lowerResp, hoursOnlyIndicators) && !containsAny(lowerResp, schedulingIndicators) {
		return resp
	}
	if monthShiftRe.MatchString(st.userInput) {
		return resp
	}
	scheduling := containsAny(lowerResp, schedulingIndicators)
	if scheduling {
		// The model already committed to a specific date; stamping the
		// surrounding weekdays would propose extra days it never offered.
		if _, _, ok := calendar.ExtractDate(resp, st.anchor); ok {
			return resp
		}
	}

	week := calendar.NextWeekBlock(st.anchor)
	return stampWeekdays(resp, func(day time.Weekday) string {
		if scheduling {
			return calendar.FormatLong(week[day])
		}
		return calendar.FormatLong(calendar.NextOccurrence(st.anchor, day))
	})
}

// stampWeekdays rewrites each bare weekday mention in resp with the stamp
// text for that weekday. Mentions that already carry a date, name a range
// endpoint, lead into opening-hours prose, or refer to Sunday are left
// untouched. Sunday is never a bookable suggestion, so a mention of it is
// informational and stamping it would only manufacture a refusal.
func stampWeekdays(resp string, stamp func(time.Weekday) string) string {
	matches := bareWeekdayRe.FindAllStringSubmatchIndex(resp, -1)
	if matches == nil {
		return resp
	}
	skip := rangeEndpoints(resp)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[4] != -1 {
			// Already carries a date stamp.
			continue
		}
		day, ok := calendar.ParseWeekday(resp[m[2]:m[3]])
		if !ok || day == time.Sunday || skip[day] || hoursProseRe.MatchString(resp[m[1]:]) {
			continue
		}
		b.WriteString(resp[last:m[0]])
		b.WriteString(stamp(day))
		last = m[1]
	}
	if last == 0 {
		return resp
	}
	b.WriteString(resp[last:])
	return b.String()
}

// annotateTomorrow appends the resolved date after "tomorrow" so the user
// never has to do the arithmetic themselves.
func (r *Rewriter) annotateTomorrow(resp string, st *rewriteState) string {
	if st.policyApplied || strings.Contains(strings.ToLower(resp), "tomorrow (") {
		return resp
	}
	stamp := fmt.Sprintf("tomorrow (%s)", calendar.FormatLong(calendar.Tomorrow(st.anchor)))
	return tomorrowRe.ReplaceAllString(resp, stamp)
}

// reconcileUserDate makes the response agree with a date the user named. A
// Sunday request is refused outright; otherwise every weekday claim in the
// response is corrected to the user's date. When the user named no date, any
// weekday/date pair the model invented is still repaired for internal
// consistency.
func (r *Rewriter) reconcileUserDate(resp string, st *rewriteState) string {
	if st.policyApplied {
		return resp
	}
	if !st.hasUserDate {
		return r.repairResponsePairs(resp, st)
	}

	if r.policy.IsClosed(st.userDate) {
		st.policyApplied = true
		return r.closedDayMessage(st.userDate)
	}

	want := calendar.FormatLong(st.userDate)

	resp = dayDatePairRe.ReplaceAllStringFunc(resp, func(m string) string {
		sub := dayDatePairRe.FindStringSubmatch(m)
		d, _, ok := calendar.ExtractDate(sub[3], st.anchor)
		if !ok {
			return m
		}
		if d.Month() == st.userDate.Month() && d.Day() == st.userDate.Day() {
			return want
		}
		// A different date: keep it, but fix a lying weekday word.
		return calendar.FormatLong(d)
	})

	if strings.Contains(resp, want) {
		// The response already states the user's date; any remaining bare
		// weekday is side commentary, not a claim about that date.
		return resp
	}
	return stampWeekdays(resp, func(time.Weekday) string { return want })
}

// repairResponsePairs fixes weekday/date pairs the model produced on its
// own, without a user-named date to anchor on. When the leading pair, the one
// the model is proposing as the visit day, lands on a Sunday the whole
// response becomes a closed-day refusal. Later pairs are context, not the
// proposal, and only get their weekday words corrected.
func (r *Rewriter) repairResponsePairs(resp string, st *rewriteState) string {
	if sub := dayDatePairRe.FindStringSubmatch(resp); sub != nil {
		d, _, ok := calendar.ExtractDate(sub[3], st.anchor)
		if ok && r.policy.IsClosed(d) {
			st.policyApplied = true
			return r.closedDayMessage(d)
		}
	}
	return dayDatePairRe.ReplaceAllStringFunc(resp, func(m string) string {
		sub := dayDatePairRe.FindStringSubmatch(m)
		d, _, ok := calendar.ExtractDate(sub[3], st.anchor)
		if !ok {
			return m
		}
		return calendar.FormatLong(d)
	})
}

// enforceBusinessHours replaces the response when a requested time falls
// outside opening hours for the implied day.
func (r *Rewriter) enforceBusinessHours(resp string, st *rewriteState) string {
	if st.policyApplied {
		return resp
	}
	lowerResp := strings.ToLower(resp)
	lowerInput := strings.ToLower(st.userInput)
	if !strings.Contains(lowerResp+" "+lowerInput, "appointment") &&
		!strings.Contains(lowerResp+" "+lowerInput, "book") &&
		!strings.Contains(lowerResp+" "+lowerInput, "schedule") {
		return resp
	}

	timeMatch := clockTimeRe.FindStringSubmatch(st.userInput)
	if timeMatch == nil {
		timeMatch = clockTimeRe.FindStringSubmatch(resp)
	}
	if timeMatch == nil {
		return resp
	}
	hour, minute := parseClock(timeMatch)

	day, ok := r.impliedWeekday(resp, st)
	if !ok {
		return resp
	}
	if day == time.Sunday {
		st.policyApplied = true
		return r.closedDayMessage(calendar.NextOccurrence(st.anchor, time.Sunday))
	}
	if r.policy.InBusinessHours(day, hour, minute) {
		return resp
	}

	st.policyApplied = true
	return r.outOfHoursMessage(NormalizeTime(timeMatch[0]))
}

// impliedWeekday resolves which day a requested time refers to: the user's
// explicit date first, then a dated pair in the response, then a bare
// weekday mention.
func (r *Rewriter) impliedWeekday(resp string, st *rewriteState) (time.Weekday, bool) {
	if st.hasUserDate {
		return st.userDate.Weekday(), true
	}
	if sub := dayDatePairRe.FindStringSubmatch(resp); sub != nil {
		if d, _, ok := calendar.ExtractDate(sub[3], st.anchor); ok {
			return d.Weekday(), true
		}
	}
	skip := rangeEndpoints(resp)
	for _, sub := range bareWeekdayRe.FindAllStringSubmatch(resp, -1) {
		day, ok := calendar.ParseWeekday(sub[1])
		if ok && !skip[day] {
			return day, true
		}
	}
	return 0, false
}

// appendSummary synthesizes the booking summary block once the model has
// confirmed an appointment but failed to recap it.
func (r *Rewriter) appendSummary(resp string, st *rewriteState) string {
	if st.policyApplied {
		return resp
	}
	lowerResp := strings.ToLower(resp)
	lowerInput := strings.ToLower(st.userInput)

	if containsAny(lowerResp, summaryMarkers) {
		return resp
	}
	if containsAny(lowerResp, cancellationWords) || containsAny(lowerInput, cancellationWords) {
		return resp
	}
	if isBareConfirmation(st.userInput) {
		return resp
	}

	confirmed := containsAny(lowerResp, confirmationWords)
	booking := strings.Contains(lowerResp, "appointment") &&
		bookingTriggerRe.MatchString(resp) &&
		hasBookingDetails(st.userInput)
	if !confirmed && !booking {
		return resp
	}

	slots := ExtractSlots(st.history, st.userInput)
	dateStr, ok := r.resolveSummaryDate(resp, st, slots)
	if !ok || slots.Time == "" {
		return resp
	}

	var b strings.Builder
	b.WriteString(resp)
	b.WriteString("\n\n\U0001F4C5 **Appointment Summary:**")
	if slots.Name != "" {
		fmt.Fprintf(&b, "\n- **Patient Name:** %s", slots.Name)
	}
	fmt.Fprintf(&b, "\n- **Date & Time:** %s at %s", dateStr, slots.Time)
	if slots.Reason != "" {
		fmt.Fprintf(&b, "\n- **Reason:** %s", slots.Reason)
	}
	if slots.Phone != "" {
		fmt.Fprintf(&b, "\n- **Contact:** %s", slots.Phone)
	}
	b.WriteString("\n\nTo complete your booking, please click the 'Confirm Appointment' button below, " +
		"or I can have our receptionist call you to finalize the booking. " +
		"Is there anything else you'd like to know?")
	return b.String()
}

// resolveSummaryDate picks the date line for the summary block, preferring
// what the patient actually said over what the model wrote.
func (r *Rewriter) resolveSummaryDate(resp string, st *rewriteState, slots AppointmentSlots) (string, bool) {
	if slots.Date != "" {
		if d, _, ok := calendar.ExtractDate(slots.Date, st.anchor); ok {
			return calendar.FormatLong(d), true
		}
	}
	if st.hasUserDate {
		return calendar.FormatLong(st.userDate), true
	}
	if sub := dayDatePairRe.FindStringSubmatch(resp); sub != nil {
		if d, _, ok := calendar.ExtractDate(sub[3], st.anchor); ok {
			return calendar.FormatLong(d), true
		}
	}
	skip := rangeEndpoints(resp)
	for _, sub := range bareWeekdayRe.FindAllStringSubmatch(resp, -1) {
		if day, ok := calendar.ParseWeekday(sub[1]); ok && !skip[day] {
			return calendar.FormatLong(calendar.NextOccurrence(st.anchor, day)), true
		}
	}
	return "", false
}

func (r *Rewriter) closedDayMessage(d time.Time) string {
	return fmt.Sprintf("I'm sorry, but our clinic is closed on Sundays. %s is not available for appointments. %s Would you like to choose a different day for your appointment?",
		calendar.FormatMonthDate(d), r.policy.HoursSentence())
}

func (r *Rewriter) outOfHoursMessage(timeStr string) string {
	return fmt.Sprintf("I'm sorry, but %s is outside our business hours. %s "+
		"Popular times include 9:00 AM, 10:00 AM, 2:00 PM, 3:00 PM, and 4:30 PM. "+
		"What time within those hours works best for you?",
		timeStr, r.policy.HoursSentence())
}

// rangeEndpoints collects the weekdays named as endpoints of a range like
// "Monday-Friday"; those are opening-hours prose, never a visit day.
func rangeEndpoints(resp string) map[time.Weekday]bool {
	skip := make(map[time.Weekday]bool)
	for _, sub := range weekdayRangeRe.FindAllStringSubmatch(resp, -1) {
		if d, ok := calendar.ParseWeekday(sub[1]); ok {
			skip[d] = true
		}
		if d, ok := calendar.ParseWeekday(sub[2]); ok {
			skip[d] = true
		}
	}
	return skip
}

func parseClock(sub []string) (hour, minute int) {
	fmt.Sscanf(sub[1], "%d", &hour)
	if sub[2] != "" {
		fmt.Sscanf(sub[2], "%d", &minute)
	}
	ampm := strings.ToUpper(sub[3])
	if ampm == "PM" && hour != 12 {
		hour += 12
	}
	if ampm == "AM" && hour == 12 {
		hour = 0
	}
	return hour, minute
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// hasBookingDetails reports whether the user's message carries a concrete
// appointment detail: a full name, a phone number, a clock time, or a date.
// The summary trigger on "appointment for" phrasing requires one so that
// idle inquiries never grow a summary block.
func hasBookingDetails(input string) bool {
	for _, re := range bookingDetailRes {
		if re.MatchString(input) {
			return true
		}
	}
	return false
}

func isBareConfirmation(input string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	trimmed = strings.TrimRight(trimmed, ".!")
	for _, c := range bareConfirmations {
		if trimmed == c {
			return true
		}
	}
	return false
}
