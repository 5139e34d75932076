package app

import "portfolio/internal/i18n"

// labels holds the interface strings that are not part of the content tables.
var labels = map[string]i18n.Text{
	"nav.home":     {EN: "Home", AR: "الرئيسية"},
	"nav.about":    {EN: "About", AR: "نبذة"},
	"nav.services": {EN: "Services", AR: "الخدمات"},
	"nav.projects": {EN: "Projects", AR: "المشاريع"},
	"nav.blog":     {EN: "Blog", AR: "المدونة"},
	"nav.contact":  {EN: "Contact", AR: "تواصل"},
	"nav.switch":   {EN: "العربية", AR: "English"},
	"nav.skip":     {EN: "Skip to content", AR: "تخطَّ إلى المحتوى"},

	"home.services":  {EN: "What I can build for you", AR: "ماذا يمكنني أن أبني لك"},
	"home.projects":  {EN: "Selected work", AR: "أعمال مختارة"},
	"home.posts":     {EN: "Latest articles", AR: "أحدث المقالات"},
	"home.reviews":   {EN: "Client reviews", AR: "آراء العملاء"},
	"home.cta":       {EN: "Start a project", AR: "ابدأ مشروعك"},
	"home.all":       {EN: "View all", AR: "عرض الكل"},
	"about.title":    {EN: "About me", AR: "نبذة عني"},
	"about.stack":    {EN: "Tech stack", AR: "التقنيات"},
	"about.focus":    {EN: "Focus areas", AR: "مجالات التركيز"},
	"services.title": {EN: "Services", AR: "الخدمات"},
	"services.intro": {EN: "Websites and web apps built for speed, search and conversion.", AR: "مواقع وتطبيقات ويب مبنية للسرعة ومحركات البحث والتحويل."},
	"projects.title": {EN: "Projects", AR: "المشاريع"},
	"projects.intro": {EN: "Case studies of recent client work.", AR: "دراسات حالة لأعمال حديثة للعملاء."},
	"blog.title":     {EN: "Blog", AR: "المدونة"},
	"blog.intro":     {EN: "Notes on technical SEO, performance and building for the web.", AR: "ملاحظات عن SEO التقني والأداء وبناء الويب."},
	"contact.title":  {EN: "Contact", AR: "تواصل معي"},
	"contact.intro":  {EN: "Tell me about your project and I will reply within two working days.", AR: "أخبرني عن مشروعك وسأرد خلال يومي عمل."},

	"service.deliverables": {EN: "Deliverables", AR: "المخرجات"},
	"service.outcomes":     {EN: "Outcomes", AR: "النتائج"},
	"service.process":      {EN: "Process", AR: "خطوات العمل"},
	"service.whatsapp":     {EN: "Ask on WhatsApp", AR: "اسأل عبر واتساب"},
	"service.message":      {EN: "Hello, I am interested in: ", AR: "مرحباً، أنا مهتم بخدمة: "},
	"project.stack":        {EN: "Tech stack", AR: "التقنيات"},
	"project.live":         {EN: "Live site", AR: "الموقع المباشر"},
	"project.repo":         {EN: "Source code", AR: "الكود المصدري"},
	"post.related":         {EN: "Related articles", AR: "مقالات ذات صلة"},
	"post.services":        {EN: "Services that can help", AR: "خدمات قد تساعدك"},
	"post.published":       {EN: "Published", AR: "نُشر في"},

	"form.name":          {EN: "Name", AR: "الاسم"},
	"form.email":         {EN: "Email", AR: "البريد الإلكتروني"},
	"form.message":       {EN: "Message", AR: "الرسالة"},
	"form.send":          {EN: "Send message", AR: "إرسال الرسالة"},
	"form.sent":          {EN: "Thanks! Your message was received.", AR: "شكراً! تم استلام رسالتك."},
	"form.invalid":       {EN: "Please fix the highlighted fields.", AR: "يرجى تصحيح الحقول المحددة."},
	"form.offline":       {EN: "The contact form is unavailable right now. Please email me instead.", AR: "نموذج التواصل غير متاح حالياً. يرجى مراسلتي عبر البريد."},
	"form.required":      {EN: "This field is required.", AR: "هذا الحقل مطلوب."},
	"form.invalid_email": {EN: "Enter a valid email address.", AR: "أدخل بريداً إلكترونياً صحيحاً."},
	"form.too_short":     {EN: "Please write a little more.", AR: "يرجى كتابة المزيد من التفاصيل."},
	"form.too_long":      {EN: "This is too long.", AR: "النص طويل جداً."},

	"notfound.title": {EN: "Page not found", AR: "الصفحة غير موجودة"},
	"notfound.body":  {EN: "The page you are looking for does not exist or has moved.", AR: "الصفحة التي تبحث عنها غير موجودة أو تم نقلها."},
	"notfound.home":  {EN: "Back to the home page", AR: "العودة إلى الصفحة الرئيسية"},

	"footer.rights": {EN: "All rights reserved.", AR: "جميع الحقوق محفوظة."},
}

// label returns the interface string key in locale l, or key itself when it is
// unknown.
func label(l i18n.Locale, key string) string {
	if t, ok := labels[key]; ok {
		return t.In(l)
	}
	return key
}

// fieldMessage maps a FieldErrors code to its label key.
func fieldMessage(code string) string {
	if code == "invalid" {
		return "form.invalid_email"
	}
	return "form." + code
}
