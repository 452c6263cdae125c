package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractLocationSpecialty asks the model for the location and specialty
// in a facility-search query, in a line format ParseLocationSpecialty
// can read back.
func ExtractLocationSpecialty(query string) string {
	return fmt.Sprintf(`Extract the location and medical specialty from the following query.

User query: "%s"

Use the format:
Location: [extracted location, or "unspecified" if none]
Specialty: [extracted medical specialty or condition, or "general" if none]`, query)
}

var (
	locationRe  = regexp.MustCompile(`Location:\s*(.+)`)
	specialtyRe = regexp.MustCompile(`Specialty:\s*(.+)`)
)

// ParseLocationSpecialty reads the model's extraction response. Missing
// or unreadable fields come back as "unspecified" and "general".
func ParseLocationSpecialty(response string) (location, specialty string) {
	location, specialty = "unspecified", "general"

	if m := locationRe.FindStringSubmatch(response); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			location = v
		}
	}
	if m := specialtyRe.FindStringSubmatch(response); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			specialty = v
		}
	}
	return location, specialty
}

// FacilitySearch requests detailed information about hospitals and
// medical facilities for a location, optionally narrowed to a specialty.
func FacilitySearch(location, specialty string) string {
	narrowing := ""
	if specialty != "" && specialty != "general" {
		narrowing = fmt.Sprintf(" specializing in %s", specialty)
	}
	return fmt.Sprintf(`Provide comprehensive information about hospitals and medical facilities in %s%s. For current facility information, quality ratings, and specific details, search the internet and include verified sources with actual URLs.

**FACILITY IDENTIFICATION AND BASIC INFORMATION:**
- Names and locations of major hospitals and medical centers
- Types of facilities (academic medical centers, community hospitals, specialty clinics, urgent care, etc.)
- Hospital systems and healthcare networks in the area
- Ownership structure (public, private, non-profit, for-profit)
- Bed capacity and facility size classifications

**MEDICAL SPECIALTIES AND SERVICES:**
- Comprehensive list of medical departments and specialties available
- Centers of excellence and specialized programs
- Emergency services and trauma center designations
- Surgical capabilities and advanced procedures offered
- Diagnostic imaging and laboratory services
- Rehabilitation and long-term care services

**QUALITY INDICATORS AND ACCREDITATION:**
- Hospital quality ratings and safety scores
- Accreditation status (Joint Commission, AAAHC, etc.)
- Patient satisfaction scores and experience ratings
- Clinical outcomes and performance metrics
- Infection rates and safety indicators
- Awards and recognitions received

**EMERGENCY AND URGENT CARE GUIDANCE:**
- Emergency department locations and contact information
- Trauma center levels and capabilities
- Urgent care centers and walk-in clinics
- When to choose emergency vs. urgent vs. routine care
- Expected wait times and triage processes
- Pediatric emergency services availability

**ACCESSIBILITY AND PATIENT SERVICES:**
- Insurance acceptance and billing information
- Transportation options and parking availability
- Language services and interpreter availability
- Disability accommodations and accessibility features
- Visiting hours and patient support services
- Social services and case management

**FINANCIAL CONSIDERATIONS:**
- Estimated costs for common procedures and services
- Financial assistance programs and charity care
- Payment options and billing practices
- Insurance network participation
- Out-of-network considerations and surprise billing protections
- Resources for financial planning and assistance

**GEOGRAPHIC AND LOGISTICAL INFORMATION:**
- Detailed locations and directions
- Public transportation accessibility
- Parking availability and costs
- Nearby hotels for out-of-town patients
- Local resources and amenities
- Campus maps and navigation assistance

**PHYSICIAN AND STAFF INFORMATION:**
- How to find and verify physician credentials
- Residency and fellowship training programs
- Nursing staff qualifications and ratios
- Multidisciplinary care team composition
- Academic affiliations and teaching status
- Research programs and clinical trials

**APPOINTMENT SCHEDULING AND ACCESS:**
- How to schedule appointments and consultations
- Typical wait times for different services
- Expedited scheduling for urgent conditions
- Telemedicine and virtual care options
- Second opinion services and referral processes
- International patient services if applicable

**PATIENT PREPARATION AND WHAT TO EXPECT:**
- Pre-admission requirements and preparation
- What to bring for appointments and procedures
- Hospital policies and procedures
- Patient rights and responsibilities
- Discharge planning and follow-up care
- Support services for patients and families

**GLOBAL HEALTHCARE CONTEXT:**
- How local facilities compare to national standards
- International accreditation and medical tourism considerations
- Cross-border healthcare options if applicable
- Cultural competency and international patient services
- Quality comparisons with other regions or countries

**SOURCE REQUIREMENTS FOR CURRENT FACILITY INFORMATION:**
When you search the internet for current facility information, quality ratings, or specific details:
- Use numbered citations [1], [2], etc. throughout your response
- Include actual URLs from hospital websites, quality databases, and verification sources
- Format URLs as clickable markdown links: [URL text](URL) for better user experience
- Prioritize: official hospital websites, government health databases, accreditation organizations, healthcare quality reporting sites
- Create a "**Verified Sources and References**" section with all URLs, contact information, and verification dates
- Clearly state that the response includes current internet research
- Include specific facility websites, phone numbers, and direct links to quality reports

For general healthcare guidance not requiring current search:
- Provide comprehensive information based on established healthcare knowledge
- Do not include a sources section for general medical guidance
- Note: "For current facility information, quality ratings, and contact details, please verify directly with healthcare facilities"

Focus on providing accurate, current information that helps users make informed decisions about healthcare facilities while noting the importance of verifying information directly with healthcare providers.`, location, narrowing)
}

// HospitalGuidance turns the facility research into selection guidance
// for the user's query.
func HospitalGuidance(query, facilityInfo string) string {
	return fmt.Sprintf(`User query: "%s"

Comprehensive facility research:
%s

Based on this healthcare facility information, provide detailed guidance that follows this structure:

**Understanding Your Healthcare Options**
- Overview of available healthcare facilities and their characteristics
- Types of care settings and when each is most appropriate
- How different facilities serve different medical needs

**Facility Quality and Safety Information**
- Quality ratings, safety scores, and accreditation status of recommended facilities
- How to interpret quality metrics and patient satisfaction scores
- Comparison of performance indicators between different facilities
- Awards, recognitions, and centers of excellence

**Emergency vs. Routine Care Guidance**
- When to seek emergency care vs. urgent care vs. routine appointments
- Emergency department capabilities and trauma center designations
- Expected processes and wait times for different types of care
- How to prepare for emergency situations

**Specialty Services and Advanced Care**
- Specialized departments and programs available
- Centers of excellence and unique capabilities
- Advanced procedures and technology offerings
- Multidisciplinary care teams and collaborative approaches

**Financial Planning and Insurance Considerations**
- Insurance acceptance and network participation
- Estimated costs and financial assistance programs
- How to navigate billing and payment options
- Resources for financial planning and support
- Surprise billing protections and patient rights

**Accessibility and Patient Experience**
- Transportation options, parking, and accessibility features
- Language services and cultural competency programs
- Patient support services and amenities
- Visiting policies and family accommodations

**Making Healthcare Appointments**
- How to schedule appointments and what to expect
- Preparation requirements for different types of visits
- Wait times and expedited scheduling for urgent needs
- Telemedicine and virtual care options available

**Navigating the Healthcare System**
- How to prepare for medical appointments effectively
- Questions to ask healthcare providers
- Understanding your rights as a patient
- How to advocate for yourself or loved ones
- Resources for getting second opinions

**Working with Healthcare Providers**
- How to find and verify physician credentials
- Understanding different types of medical specialists
- Building effective relationships with your healthcare team
- Communication strategies for better care outcomes

**Long-term Healthcare Planning**
- Building relationships with primary care providers
- Coordinating care between different specialists and facilities
- Managing chronic conditions and ongoing health needs
- Preventive care and health maintenance strategies

**SOURCE HANDLING:**
- If the facility information included internet research with specific sources and URLs, include those in a "Verified Sources and References" section
- If the facility information was based on general healthcare knowledge, do not add a sources section
- Only include sources when they were actually obtained from internet research about specific facilities

Provide practical, actionable guidance while noting that healthcare needs are individual and may require personalized consultation with healthcare providers.`, query, facilityInfo)
}
