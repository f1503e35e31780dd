package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"moltbook/internal/cli/verify"
	"moltbook/internal/models"
)

// listingLines caps post and search bodies in list views.
const listingLines = 3

func (r *Renderer) Profile(o models.Object[models.Agent], title string) {
	if title == "" {
		title = "Profile"
	}
	r.heading("👤", title)
	if o.IsLoose() {
		r.looseObject(o.Loose)
		return
	}
	a := o.Value
	r.field("Name", a.Name, r.st.label)
	r.field("Agent ID", a.ID, r.st.dim)
	if a.AvatarURL != "" {
		r.field("Avatar", a.AvatarURL, r.st.link)
	}
	if a.Description != "" {
		r.line(r.rule("─"))
		for _, l := range wrap(a.Description, r.width-4, 0) {
			r.line("  " + l)
		}
	}
	r.line(r.rule("─"))
	r.field(r.icon("✨", "Karma"), count(a.Karma.Int64()), r.st.warn)
	if a.Stats != nil {
		r.field(r.icon("📝", "Posts"), count(a.Stats.Posts.Int64()))
		r.field(r.icon("💬", "Comments"), count(a.Stats.Comments.Int64()))
		r.field(r.icon("🍿", "Submolts"), count(a.Stats.Subscriptions.Int64()))
	}
	r.field(r.icon("👥", "Followers"), count(a.FollowerCount.Int64()))
	r.field(r.icon("👀", "Following"), count(a.FollowingCount.Int64()))
	r.line(r.rule("─"))
	if a.IsClaimed != nil {
		status := r.st.fail.Render("Unclaimed")
		if *a.IsClaimed {
			status = r.st.success.Render("Claimed")
		}
		r.field(r.icon("🛡️", "Status"), status)
		r.field(r.icon("📅", "Claimed"), RelTime(a.ClaimedAt, r.now()), r.st.dim)
	}
	r.field(r.icon("🌱", "Joined"), RelTime(a.CreatedAt, r.now()), r.st.dim)
	r.field(r.icon("⏰", "Active"), RelTime(a.LastActive, r.now()), r.st.dim)
	if ow := a.Owner; ow != nil {
		r.line()
		r.line("  " + r.icon("👑", r.st.warn.Render("Owner")))
		r.field("Name", ow.XName)
		if ow.XHandle != "" {
			verified := ""
			if ow.XVerified {
				verified = r.st.link.Render(" (Verified)")
			}
			r.field("X", "@"+r.st.accent.Render(ow.XHandle)+verified)
		}
		if ow.XFollowerCount > 0 || ow.XFollowingCount > 0 {
			r.field("X Stats", fmt.Sprintf("%s followers | %s following", count(ow.XFollowerCount.Int64()), count(ow.XFollowingCount.Int64())))
		}
		r.field("Owner ID", a.OwnerID, r.st.dim)
	}
	if len(a.Metadata) > 0 {
		r.line()
		r.line("  " + r.icon("📂", r.st.link.Render("Metadata")))
		r.looseObject(a.Metadata)
	}
	if len(a.RecentPosts) > 0 {
		r.line()
		r.line("  " + r.st.title.Render("Recent Posts"))
		for i, p := range a.RecentPosts {
			r.post(p, i+1)
		}
	}
	r.line()
}

func (r *Renderer) Status(o models.Object[models.Status]) {
	r.heading("🛡️", "Account Status")
	if o.IsLoose() {
		r.looseObject(o.Loose)
		return
	}
	s := o.Value
	if a := s.Agent; a != nil {
		r.field("Agent Name", a.Name, r.st.label)
		r.field("Agent ID", a.ID, r.st.dim)
		r.field("Claimed At", RelTime(a.ClaimedAt, r.now()), r.st.dim)
		r.line(r.rule("─"))
	}
	switch s.Status {
	case "":
	case "claimed":
		r.field("Status", "Claimed", r.st.success)
	case "pending_claim":
		r.field("Status", "Pending Claim", r.st.warn)
	default:
		r.field("Status", s.Status)
	}
	if s.Message != "" {
		r.line()
		r.line("  " + s.Message)
	}
	if s.NextStep != "" {
		r.line("  " + r.st.dim.Render(s.NextStep))
	}
	r.line()
}

// Posts renders a feed. emptyHints are printed when there is nothing to show.
func (r *Renderer) Posts(title string, l models.List[models.Post], emptyHints ...string) {
	r.line()
	r.line(r.st.title.Render(title))
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No posts found.")
		for _, h := range emptyHints {
			r.line("  - " + h)
		}
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, listingLines)
		return
	}
	for i, p := range l.Items {
		r.post(p, i+1)
	}
}

func (r *Renderer) Post(o models.Object[models.Post]) {
	if o.IsLoose() {
		r.looseItem(o.Loose, 0, 0)
		return
	}
	r.post(o.Value, 0)
}

// post renders one post; index > 0 marks a listing entry.
func (r *Renderer) post(p models.Post, index int) {
	var prefix string
	if index > 0 {
		prefix = fmt.Sprintf("#%-2d ", index)
	}
	if p.IsPinned {
		prefix += r.icon("📌", "")
		if !r.emoji {
			prefix += "[pinned] "
		}
	}
	if p.IsLocked {
		prefix += r.icon("🔒", "")
		if !r.emoji {
			prefix += "[locked] "
		}
	}
	r.line(r.st.label.Render(prefix) + "Title: " + r.st.accent.Render(truncate(p.Title, r.width-len(prefix)-7)))

	author := r.st.author.Render(p.Author.Name)
	if p.YouFollowAuthor != nil && *p.YouFollowAuthor {
		author += r.st.link.Render(" [Following]")
	}
	community := p.Community()
	if community == "" {
		community = "unknown"
	}
	stats := fmt.Sprintf("upvotes (%s) | downvotes (%s) | comments (%s)",
		count(p.Upvotes.Int64()), count(p.Downvotes.Int64()), count(p.CommentCount.Int64()))
	if p.Score != 0 {
		stats += fmt.Sprintf(" | score (%s)", count(p.Score.Int64()))
	}
	r.line(r.icon("👤", author+" in m/"+r.st.success.Render(community)+" "+r.st.dim.Render(stats)))

	maxLines := 0
	if index > 0 {
		maxLines = listingLines
	}
	for _, l := range wrap(p.Content, r.width-4, maxLines) {
		r.line("│  " + l)
	}
	if p.URL != "" {
		r.line("│  " + r.icon("🔗", r.st.link.Render(p.URL)))
	}
	footer := "Post ID: " + p.ID
	if t := RelTime(p.CreatedAt, r.now()); t != "" {
		footer += " • " + t
	}
	r.line("└─ " + r.st.dim.Render(footer))
	r.line()
}

func (r *Renderer) Comments(l models.List[models.Comment]) {
	r.line()
	r.line(r.st.title.Render("Comments"))
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No comments yet. Be the first!")
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, 0)
		return
	}
	for i, c := range l.Items {
		r.comment(c, fmt.Sprintf("#%-2d", i+1), 0)
	}
}

func (r *Renderer) comment(c models.Comment, label string, depth int) {
	indent := strings.Repeat("    ", depth)
	name := c.Author.Name
	if name == "" {
		name = "unknown"
	}
	head := fmt.Sprintf("%s%s %s (⬆ %s)", indent, r.st.dim.Render(label), r.st.author.Render(name), count(c.Upvotes.Int64()))
	if t := RelTime(c.CreatedAt, r.now()); t != "" {
		head += " " + r.st.dim.Render(t)
	}
	r.line(head)
	for _, l := range wrap(c.Content, r.width-4-len(indent), 0) {
		r.line(indent + "│ " + l)
	}
	r.line(indent + "└─ " + r.st.dim.Render("Comment ID: "+c.ID))
	r.line()
	for _, reply := range c.Replies {
		r.comment(reply, "↳", depth+1)
	}
}

func (r *Renderer) Search(query string, l models.List[models.SearchResult]) {
	r.line()
	r.line(r.st.title.Render("Search Results for") + " '" + r.st.accent.Render(query) + "'")
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No results found.")
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, listingLines)
		return
	}
	for i, res := range l.Items {
		title := res.Title
		if title == "" {
			title = "(" + res.Type + ")"
		}
		score := ""
		if s, ok := res.Score(); ok {
			if s > 1 {
				score = fmt.Sprintf("%.1f", s)
			} else {
				score = fmt.Sprintf("%.0f%%", s*100)
			}
		}
		r.line(fmt.Sprintf("#%-2d ", i+1) + r.st.accent.Render(truncate(title, r.width-12)) + "  " + r.st.success.Render(score))
		r.line("    " + r.icon("👤", r.st.author.Render(res.Author.Name)) + "  •  " + r.st.link.Render(res.Type) +
			"  " + r.st.dim.Render(fmt.Sprintf("⬆ %s ⬇ %s", count(res.Upvotes.Int64()), count(res.Downvotes.Int64()))))
		for _, l := range wrap(res.Content, r.width-6, listingLines) {
			r.line("    │ " + l)
		}
		postID := res.PostID
		if postID == "" && res.Type == "post" {
			postID = res.ID
		}
		if postID != "" {
			r.line("    └─ " + r.st.dim.Render("Post ID: "+postID))
		}
		r.line()
	}
}

func (r *Renderer) Submolts(sort string, l models.List[models.Submolt]) {
	r.line()
	title := "Available Submolts"
	if sort != "" {
		title += " (" + sort + ")"
	}
	r.line(r.st.title.Render(title))
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No submolts found.")
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, 1)
		return
	}
	for _, s := range l.Items {
		r.submolt(s)
	}
}

func (r *Renderer) submolt(s models.Submolt) {
	display := s.DisplayName
	if display == "" {
		display = s.Name
	}
	r.line(r.st.accent.Render(display) + " (m/" + r.st.success.Render(s.Name) + ")")
	if s.Description != "" {
		r.line("  " + r.st.dim.Render(truncate(s.Description, r.width-2)))
	}
	r.field("Subscribers", count(s.SubscriberCount.Int64()))
	if s.PostCount > 0 {
		r.field("Posts", count(s.PostCount.Int64()))
	}
	if s.CreatedBy != nil {
		r.field("Created by", s.CreatedBy.Name, r.st.author)
	}
	var flags []string
	if s.IsNSFW {
		flags = append(flags, r.st.fail.Render("NSFW"))
	}
	if s.IsPrivate {
		flags = append(flags, r.st.warn.Render("Private"))
	}
	if s.AllowCrypto {
		flags = append(flags, r.st.success.Render("Crypto Allowed"))
	}
	if len(flags) > 0 {
		r.field("Flags", strings.Join(flags, ", "))
	}
	r.line(r.st.dim.Render(strings.Repeat("─", min(r.width, 60))))
}

func (r *Renderer) SubmoltInfo(o models.Object[models.SubmoltDetail]) {
	if o.IsLoose() {
		r.looseObject(o.Loose)
		return
	}
	d := o.Value
	s := d.Submolt
	display := s.DisplayName
	if display == "" {
		display = s.Name
	}
	r.line()
	r.line(r.st.accent.Render(display) + " (m/" + r.st.success.Render(s.Name) + ")")
	r.field("Your Role", d.YourRole)
	if s.Description != "" {
		for _, l := range wrap(s.Description, r.width-4, 0) {
			r.line("  " + r.st.dim.Render(l))
		}
	}
	r.field("Subscribers", count(s.SubscriberCount.Int64()))
	r.field("Posts", count(s.PostCount.Int64()))
	crypto := r.st.fail.Render("Not Allowed")
	if s.AllowCrypto {
		crypto = r.st.warn.Render("Allowed")
	}
	r.field("Crypto Posts", crypto)
	r.field("Theme", s.ThemeColor)
	r.field("Banner", s.BannerColor)
	r.field("Created", RelTime(s.CreatedAt, r.now()), r.st.dim)
	if len(d.Moderators) > 0 {
		names := make([]string, 0, len(d.Moderators))
		for _, m := range d.Moderators {
			names = append(names, m.Agent())
		}
		r.field("Moderators", strings.Join(names, ", "))
	}
	r.line(r.rule("="))
}

func (r *Renderer) Moderators(submolt string, l models.List[models.Moderator]) {
	r.line()
	r.line("Moderators for m/" + r.st.accent.Render(submolt))
	if l.Len() == 0 {
		r.Info("No moderators listed.")
		return
	}
	if l.IsLoose() {
		for _, row := range l.Loose {
			r.line("  - " + r.st.author.Render(firstStr(row, "agent_name", "name")) + " (" + r.st.dim.Render(firstStr(row, "role")) + ")")
		}
		return
	}
	for _, m := range l.Items {
		role := m.Role
		if role == "" {
			role = "moderator"
		}
		r.line("  - " + r.st.author.Render(m.Agent()) + " (" + r.st.dim.Render(role) + ")")
	}
}

func (r *Renderer) DMCheck(o models.Object[models.DMCheck]) {
	r.heading("", "DM Activity")
	if o.IsLoose() {
		r.looseObject(o.Loose)
		return
	}
	c := o.Value
	if !c.HasActivity {
		r.line("  " + r.st.success.Render("No new DM activity"))
		r.line()
		return
	}
	if c.Summary != "" {
		r.line("  " + r.st.warn.Render(c.Summary))
	}
	if c.Requests != nil && len(c.Requests.Items) > 0 {
		r.line()
		r.line("  " + r.st.label.Render("Pending Requests:"))
		for _, req := range c.Requests.Items {
			r.line()
			r.line("    From: " + r.st.accent.Render(req.From.Name))
			r.line("    Message: " + r.st.dim.Render(req.Text()))
			r.line("    Request ID: " + req.ConversationID)
		}
	}
	if c.Messages != nil && c.Messages.TotalUnread > 0 {
		r.line()
		r.line("  " + r.st.warn.Render(count(c.Messages.TotalUnread.Int64())) + " unread messages")
	}
	r.line()
}

func (r *Renderer) DMRequests(l models.List[models.DMRequest]) {
	r.line()
	r.line(r.st.title.Render("Pending DM Requests"))
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No pending requests.")
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, 0)
		return
	}
	for _, req := range l.Items {
		r.line(r.icon("📨", "Request from "+r.st.accent.Render(req.From.Name)))
		if req.From.Owner != nil && req.From.Owner.XHandle != "" {
			r.line("   " + r.icon("👑", "Owner: @"+r.st.link.Render(req.From.Owner.XHandle)))
		}
		for _, l := range wrap(req.Text(), r.width-6, 0) {
			r.line("   │ " + l)
		}
		r.line("   Request ID: " + r.st.dim.Render(req.ConversationID))
		r.line("   " + r.st.success.Render("Approve: moltbook dm-approve "+req.ConversationID))
		r.line("   " + r.st.fail.Render("Reject:  moltbook dm-reject "+req.ConversationID))
		r.line(r.rule("─"))
	}
}

func (r *Renderer) Conversations(l models.List[models.Conversation]) {
	r.line()
	r.line(r.st.title.Render("DM Conversations"))
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No active conversations.")
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, 0)
		return
	}
	for _, c := range l.Items {
		unread := ""
		if c.UnreadCount > 0 {
			unread = r.st.warn.Render(fmt.Sprintf(" (%s unread)", count(c.UnreadCount.Int64())))
		}
		r.line(r.icon("💬", r.st.accent.Render(c.WithAgent.Name)+unread))
		r.line("   Conversation ID: " + r.st.dim.Render(c.ConversationID))
		r.line("   Read: " + r.st.success.Render("moltbook dm-read "+c.ConversationID))
		r.line(r.rule("─"))
	}
}

// Messages renders a thread. me names the local agent for messages the
// server did not flag with from_you.
func (r *Renderer) Messages(l models.List[models.Message], me string) {
	r.line()
	r.line(r.st.title.Render("Messages"))
	r.line(r.rule("="))
	if l.Len() == 0 {
		r.Info("No messages yet.")
		return
	}
	if l.IsLoose() {
		r.looseList(l.Loose, 0)
		return
	}
	for _, m := range l.Items {
		fromYou := m.FromYou || (me != "" && strings.EqualFold(m.FromAgent.Name, me))
		who := r.icon("📥", r.st.author.Render(m.FromAgent.Name))
		if fromYou {
			who = r.icon("📤", r.st.success.Render("You"))
		}
		if t := RelTime(m.CreatedAt, r.now()); t != "" {
			who += " (" + r.st.dim.Render(t) + ")"
		}
		r.line()
		r.line(who)
		for _, l := range wrap(m.Message, r.width-4, 0) {
			r.line("  " + l)
		}
		if m.NeedsHumanInput {
			r.line("  " + r.st.fail.Render("Needs human input"))
		}
		r.line(r.st.dim.Render(strings.Repeat("─", min(r.width, 40))))
	}
}

// Challenge explains how to answer a verification challenge.
func (r *Renderer) Challenge(req *verify.Required) {
	r.line()
	r.line(r.icon("🔒", r.st.warn.Render("Verification Required")))
	if req.Challenge == nil {
		if req.Token != "" {
			r.Warn("A captcha must be solved before this " + req.Action + " can go through (token " + req.Token + ").")
			return
		}
		r.Warn("Verification is required, but challenge details are missing from the response.")
		return
	}
	ch := req.Challenge
	if ch.Instructions != "" {
		for _, l := range wrap(ch.Instructions, r.width, 0) {
			r.line(l)
		}
	}
	r.line("Challenge: " + r.st.accent.Render(ch.Challenge))
	if ch.ExpiresAt != "" {
		r.line(r.st.dim.Render("Expires: " + ch.ExpiresAt))
	}
	r.line()
	r.line("To complete your " + req.Action + ", run:")
	r.line(fmt.Sprintf("  moltbook verify --code %q --solution \"<YOUR_ANSWER>\"", ch.Code))
}

// VerifyResult renders the server's reply to a challenge answer.
func (r *Renderer) VerifyResult(raw json.RawMessage) {
	r.Success("Verification Successful!")
	var payload map[string]any
	if json.Unmarshal(raw, &payload) != nil {
		return
	}
	switch {
	case hasKey(payload, "post"):
		var p models.Post
		if b, err := json.Marshal(payload["post"]); err == nil && json.Unmarshal(b, &p) == nil {
			r.post(p, 0)
		}
	case hasKey(payload, "comment"):
		var c models.Comment
		if b, err := json.Marshal(payload["comment"]); err == nil && json.Unmarshal(b, &c) == nil {
			r.comment(c, "#1", 0)
		}
	case hasKey(payload, "agent"):
		var a models.Agent
		if b, err := json.Marshal(payload["agent"]); err == nil && json.Unmarshal(b, &a) == nil {
			r.Profile(models.Object[models.Agent]{Value: a}, "Profile")
		}
	}
	if id := str(payload["id"]); id != "" {
		r.line(r.st.label.Render("ID:") + " " + r.st.dim.Render(id))
	}
	if msg := str(payload["message"]); msg != "" {
		r.Info(msg)
	}
	if s := str(payload["suggestion"]); s != "" {
		r.line(r.icon("💡", r.st.dim.Render(s)))
	}
}

func (r *Renderer) Registration(reg models.Registration) {
	r.Success("Registration Successful!")
	r.line("Registered agent: " + r.st.accent.Render(reg.Name))
	r.line("Claim URL: " + r.st.warn.Render(reg.ClaimURL))
	r.line("Verification Code: " + r.st.warn.Render(reg.VerificationCode))
	r.line()
	r.line(r.st.fail.Render("IMPORTANT:") + " give the claim URL to your human to verify you.")
	r.line()
}
