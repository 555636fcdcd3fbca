package patterns

// Cities is the closed vocabulary of major Indian cities recognized in resumes.
var Cities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata", "Hyderabad", "Pune",
	"Ahmedabad", "Jaipur", "Lucknow", "Kanpur", "Nagpur", "Indore", "Bhopal",
	"Visakhapatnam", "Patna", "Vadodara", "Ghaziabad", "Ludhiana", "Agra", "Nashik",
	"Faridabad", "Meerut", "Rajkot", "Kalyan", "Vasai-Virar", "Varanasi", "Srinagar",
	"Aurangabad", "Dhanbad", "Amritsar", "Navi Mumbai", "Allahabad", "Ranchi", "Howrah",
	"Coimbatore", "Jabalpur", "Gwalior", "Vijayawada", "Jodhpur", "Madurai", "Raipur",
	"Kota", "Chandigarh", "Guwahati",
}

// SkillVocabulary is the fallback list of technologies scanned for when a resume has
// no skills section. Order here is the order hits are reported in.
var SkillVocabulary = []string{
	"JavaScript", "React", "Node.js", "Python", "Java", "C++", "HTML", "CSS",
	"MongoDB", "MySQL", "PostgreSQL", "Express.js", "Angular", "Vue.js", "Docker",
	"AWS", "Git", "Redux", "TypeScript", "PHP", "Laravel", "Django", "Flask",
	"Spring Boot", "Hibernate", "JPA", "REST API", "GraphQL", "Machine Learning",
	"Data Science", "Pandas", "NumPy", "TensorFlow", "Keras", "Scikit-learn", "OpenCV",
	"Android", "iOS", "React Native", "Flutter", "Kotlin", "Swift", "Firebase", "Redis",
	"Elasticsearch",
}
